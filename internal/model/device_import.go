package model

// DeviceImportRow is one device row read from an import spreadsheet.
type DeviceImportRow struct {
	RowNum          int      `json:"row_num"`
	DeviceID        string   `json:"device_id"`
	Name            string   `json:"name"`
	FirmwareVersion string   `json:"firmware_version"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
}

// DeviceImportError describes a rejected row.
type DeviceImportError struct {
	RowNum int    `json:"row_num"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Error  string `json:"error"`
}

// DeviceImportResult summarizes an import.
type DeviceImportResult struct {
	TotalCount   int                 `json:"total_count"`
	SuccessCount int                 `json:"success_count"`
	ErrorCount   int                 `json:"error_count"`
	Errors       []DeviceImportError `json:"errors,omitempty"`
}

// DeviceImportTemplateColumn describes one column of the import template.
type DeviceImportTemplateColumn struct {
	Name        string
	Key         string
	Required    bool
	Description string
	Example     string
}

// DeviceImportTemplateColumns lists the template columns in sheet order.
func DeviceImportTemplateColumns() []DeviceImportTemplateColumn {
	return []DeviceImportTemplateColumn{
		{Name: "Device ID", Key: "device_id", Required: true, Description: "Unique device identifier", Example: "dev-005"},
		{Name: "Name", Key: "name", Required: true, Description: "Display name", Example: "Cargo Truck 3"},
		{Name: "Firmware Version", Key: "firmware_version", Description: "Defaults to 1.0.0", Example: "1.2.3"},
		{Name: "Latitude", Key: "lat", Description: "Initial latitude, -90 to 90", Example: "34.0522"},
		{Name: "Longitude", Key: "lng", Description: "Initial longitude, -180 to 180", Example: "-118.2437"},
	}
}
