package library

import (
	"context"

	"github.com/Resaura/NeonScan-v2/internal/types"
)

// CreateFolder adds a folder at the end of the manual order.
func (l *Library) CreateFolder(ctx context.Context, name string) (*types.Folder, error) {
	name, err := types.ValidateFolderName(name)
	if err != nil {
		return nil, err
	}
	id, err := l.store.CreateFolder(ctx, name, l.actor)
	if err != nil {
		return nil, err
	}
	return l.Folder(ctx, id)
}

// Folders returns every folder in display order with document counts.
func (l *Library) Folders(ctx context.Context) ([]*types.Folder, error) {
	return l.store.ListFolders(ctx)
}

// Folder returns one folder.
func (l *Library) Folder(ctx context.Context, id int64) (*types.Folder, error) {
	folder, err := l.store.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, types.NotFoundf("folder %d", id)
	}
	return folder, nil
}

// UpdateFolder renames and recolors a folder. An empty color keeps the
// current one.
func (l *Library) UpdateFolder(ctx context.Context, id int64, name, color string) (*types.Folder, error) {
	current, err := l.Folder(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err = types.ValidateFolderName(name)
	if err != nil {
		return nil, err
	}
	if color == "" {
		color = current.ColorHex
	}
	color, err = types.ValidateColorHex(color)
	if err != nil {
		return nil, err
	}
	if err := l.store.UpdateFolder(ctx, id, name, color, l.actor); err != nil {
		return nil, err
	}
	return l.Folder(ctx, id)
}

// DeleteFolder removes a folder. Its documents become unfiled.
func (l *Library) DeleteFolder(ctx context.Context, id int64) error {
	return l.store.DeleteFolder(ctx, id, l.actor)
}

// ReorderFolders stores orderedIDs as the new manual order.
func (l *Library) ReorderFolders(ctx context.Context, orderedIDs []int64) ([]*types.Folder, error) {
	if len(orderedIDs) == 0 {
		return nil, types.Invalidf("no folders given")
	}
	seen := make(map[int64]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return nil, types.Invalidf("folder %d listed twice", id)
		}
		seen[id] = true
	}
	if err := l.store.UpdateFolderOrders(ctx, types.OrderFromIDs(orderedIDs), l.actor); err != nil {
		return nil, err
	}
	return l.Folders(ctx)
}
