package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

const (
	importSheet = "Devices"
	helpSheet   = "Instructions"
	fleetSheet  = "Fleet"
	tripsSheet  = "Trips"

	maxImportRows = 1000
)

// ErrInvalidSheet is returned for unreadable or malformed spreadsheets.
var ErrInvalidSheet = errors.New("invalid spreadsheet")

// DeviceSheetService imports devices from and exports the fleet to xlsx workbooks.
type DeviceSheetService struct {
	devices *DeviceService
	trips   repository.TripRepository
	logger  *zap.Logger
}

// NewDeviceSheetService creates the spreadsheet service
func NewDeviceSheetService(devices *DeviceService, trips repository.TripRepository, logger *zap.Logger) *DeviceSheetService {
	return &DeviceSheetService{devices: devices, trips: trips, logger: logger}
}

// ImportTemplate builds the import template: a header row with an example row,
// plus an instructions sheet.
func (s *DeviceSheetService) ImportTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", importSheet); err != nil {
		return nil, err
	}

	columns := model.DeviceImportTemplateColumns()
	for i, col := range columns {
		header := col.Name
		if col.Required {
			header += "*"
		}
		setCell(f, importSheet, i+1, 1, header)
		setCell(f, importSheet, i+1, 2, col.Example)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	_ = f.SetColWidth(importSheet, "A", lastCol, 20)

	if _, err := f.NewSheet(helpSheet); err != nil {
		return nil, err
	}
	for i, h := range []string{"Field", "Required", "Description", "Example"} {
		setCell(f, helpSheet, i+1, 1, h)
	}
	for i, col := range columns {
		required := "No"
		if col.Required {
			required = "Yes"
		}
		setCell(f, helpSheet, 1, i+2, col.Name)
		setCell(f, helpSheet, 2, i+2, required)
		setCell(f, helpSheet, 3, i+2, col.Description)
		setCell(f, helpSheet, 4, i+2, col.Example)
	}
	_ = f.SetColWidth(helpSheet, "A", "A", 18)
	_ = f.SetColWidth(helpSheet, "C", "C", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// ParseSheet reads device rows. Rows whose cells cannot be parsed are reported
// as errors instead of rows.
func (s *DeviceSheetService) ParseSheet(r io.Reader) ([]model.DeviceImportRow, []model.DeviceImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: no sheets", ErrInvalidSheet)
	}
	sheetName := sheets[0]
	for _, name := range sheets {
		if name == importSheet {
			sheetName = name
			break
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("%w: expected a header row and at least one data row", ErrInvalidSheet)
	}
	if len(rows)-1 > maxImportRows {
		return nil, nil, fmt.Errorf("%w: at most %d rows per import", ErrInvalidSheet, maxImportRows)
	}

	headerMap := make(map[string]int)
	for i, cell := range rows[0] {
		headerMap[strings.TrimSuffix(strings.TrimSpace(cell), "*")] = i
	}
	keys := make(map[string]int)
	for _, col := range model.DeviceImportTemplateColumns() {
		idx, ok := headerMap[col.Name]
		if !ok {
			if col.Required {
				return nil, nil, fmt.Errorf("%w: missing column %s", ErrInvalidSheet, col.Name)
			}
			continue
		}
		keys[col.Key] = idx
	}

	var devices []model.DeviceImportRow
	var rowErrors []model.DeviceImportError
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		cell := func(key string) string {
			if idx, ok := keys[key]; ok && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		device := model.DeviceImportRow{
			RowNum:          i + 1,
			DeviceID:        cell("device_id"),
			Name:            cell("name"),
			FirmwareVersion: cell("firmware_version"),
		}
		var parseErr *model.DeviceImportError
		for _, c := range []struct {
			key string
			dst **float64
		}{{"lat", &device.Lat}, {"lng", &device.Lng}} {
			raw := cell(c.key)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				parseErr = &model.DeviceImportError{RowNum: device.RowNum, Field: c.key, Value: raw, Error: "not a number"}
				break
			}
			*c.dst = &v
		}
		if parseErr != nil {
			rowErrors = append(rowErrors, *parseErr)
			continue
		}
		devices = append(devices, device)
	}

	return devices, rowErrors, nil
}

// Import creates the devices of a spreadsheet for the user. Invalid rows are
// skipped and reported in the result.
func (s *DeviceSheetService) Import(ctx context.Context, userID uint, r io.Reader) (*model.DeviceImportResult, error) {
	rows, rowErrors, err := s.ParseSheet(r)
	if err != nil {
		return nil, err
	}

	result := &model.DeviceImportResult{
		TotalCount: len(rows) + len(rowErrors),
		Errors:     rowErrors,
	}

	seen := make(map[string]int)
	for _, row := range rows {
		if e := validateImportRow(row, seen); e != nil {
			result.Errors = append(result.Errors, *e)
			continue
		}
		seen[row.DeviceID] = row.RowNum

		req := &model.CreateDeviceRequest{
			ID:              row.DeviceID,
			Name:            row.Name,
			FirmwareVersion: row.FirmwareVersion,
		}
		if row.Lat != nil && row.Lng != nil {
			req.Location = &model.LatLng{Lat: *row.Lat, Lng: *row.Lng}
		}

		if _, err := s.devices.Create(ctx, userID, req); err != nil {
			msg := "could not create device"
			if errors.Is(err, repository.ErrDuplicate) {
				msg = "device already exists"
			} else if errors.Is(err, ErrInvalidCoordinate) {
				msg = "coordinate out of range"
			} else {
				s.logger.Error("import device", zap.Int("row", row.RowNum), zap.Error(err))
			}
			result.Errors = append(result.Errors, model.DeviceImportError{RowNum: row.RowNum, Field: "device_id", Value: row.DeviceID, Error: msg})
			continue
		}
		result.SuccessCount++
	}

	result.ErrorCount = len(result.Errors)
	s.logger.Info("devices imported",
		zap.Uint("user_id", userID),
		zap.Int("total", result.TotalCount),
		zap.Int("success", result.SuccessCount))
	return result, nil
}

// ExportFleet writes the user's devices and a per-device trip summary.
func (s *DeviceSheetService) ExportFleet(ctx context.Context, userID uint) (*bytes.Buffer, error) {
	devices, _, err := s.devices.List(ctx, userID, model.DeviceQuery{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", fleetSheet); err != nil {
		return nil, err
	}
	for i, h := range []string{"Device ID", "Name", "Status", "Firmware Version", "Latitude", "Longitude", "Last Seen"} {
		setCell(f, fleetSheet, i+1, 1, h)
	}
	for i, d := range devices {
		row := i + 2
		lastSeen := ""
		if d.LastSeen != nil {
			lastSeen = d.LastSeen.UTC().Format(time.RFC3339)
		}
		for col, v := range []interface{}{d.ID, d.Name, string(d.Status), d.FirmwareVersion, d.LastLocation.Lat, d.LastLocation.Lng, lastSeen} {
			setCell(f, fleetSheet, col+1, row, v)
		}
	}
	_ = f.SetColWidth(fleetSheet, "A", "G", 18)

	if _, err := f.NewSheet(tripsSheet); err != nil {
		return nil, err
	}
	for i, h := range []string{"Device ID", "Trips", "Distance (km)", "Driving Time (h)"} {
		setCell(f, tripsSheet, i+1, 1, h)
	}
	for i, d := range devices {
		trips, err := s.trips.ListByDevice(ctx, userID, d.ID)
		if err != nil {
			return nil, err
		}
		var distance float64
		var driving time.Duration
		for _, t := range trips {
			distance += t.Distance
			driving += t.Duration()
		}
		row := i + 2
		setCell(f, tripsSheet, 1, row, d.ID)
		setCell(f, tripsSheet, 2, row, len(trips))
		setCell(f, tripsSheet, 3, row, distance)
		setCell(f, tripsSheet, 4, row, driving.Hours())
	}
	_ = f.SetColWidth(tripsSheet, "A", "D", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func validateImportRow(row model.DeviceImportRow, seen map[string]int) *model.DeviceImportError {
	fail := func(field, value, msg string) *model.DeviceImportError {
		return &model.DeviceImportError{RowNum: row.RowNum, Field: field, Value: value, Error: msg}
	}
	switch {
	case row.DeviceID == "":
		return fail("device_id", "", "device ID is required")
	case !isValidDeviceID(row.DeviceID):
		return fail("device_id", row.DeviceID, "device ID may only contain letters, digits, '-' and '_' (max 64)")
	case row.Name == "":
		return fail("name", "", "name is required")
	case (row.Lat == nil) != (row.Lng == nil):
		return fail("lat", "", "latitude and longitude must be given together")
	}
	if prev, ok := seen[row.DeviceID]; ok {
		return fail("device_id", row.DeviceID, fmt.Sprintf("duplicate of row %d", prev))
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	_ = f.SetCellValue(sheet, cell, value)
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isValidDeviceID(id string) bool {
	for _, c := range id {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-') {
			return false
		}
	}
	return len(id) > 0 && len(id) <= 64
}
