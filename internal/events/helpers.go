package events

import (
	"encoding/json"
	"fmt"
)

func (e *ActivityEvent) setData(data interface{}) error {
	dataMap, err := structToMap(data)
	if err != nil {
		return fmt.Errorf("failed to convert %T: %w", data, err)
	}
	e.Data = dataMap
	return nil
}

// GetRenameData retrieves RenameData from the Data field.
func (e *ActivityEvent) GetRenameData() (*RenameData, error) {
	var data RenameData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse RenameData: %w", err)
	}
	return &data, nil
}

// GetMoveData retrieves MoveData from the Data field.
func (e *ActivityEvent) GetMoveData() (*MoveData, error) {
	var data MoveData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse MoveData: %w", err)
	}
	return &data, nil
}

// GetConversionData retrieves ConversionData from the Data field.
func (e *ActivityEvent) GetConversionData() (*ConversionData, error) {
	var data ConversionData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse ConversionData: %w", err)
	}
	return &data, nil
}

// GetEditData retrieves EditData from the Data field.
func (e *ActivityEvent) GetEditData() (*EditData, error) {
	var data EditData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse EditData: %w", err)
	}
	return &data, nil
}

// structToMap converts a struct to map[string]interface{} using JSON marshaling.
func structToMap(data interface{}) (map[string]interface{}, error) {
	bytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// mapToStruct converts a map[string]interface{} to a struct using JSON unmarshaling.
func mapToStruct(dataMap map[string]interface{}, target interface{}) error {
	bytes, err := json.Marshal(dataMap)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, target)
}
