package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
)

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			setCell(f, "Sheet1", c+1, r+1, v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestDeviceSheetService_TemplateRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	s := NewDeviceSheetService(env.devices, env.store.Trips, zap.NewNop())

	tmpl, err := s.ImportTemplate()
	require.NoError(t, err)

	result, err := s.Import(context.Background(), env.user.ID, tmpl)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Zero(t, result.ErrorCount)

	d, err := env.devices.Get(context.Background(), env.user.ID, "dev-005")
	require.NoError(t, err)
	assert.Equal(t, "Cargo Truck 3", d.Name)
	assert.InDelta(t, 34.0522, d.LastLocation.Lat, 1e-9)
}

func TestDeviceSheetService_ImportReportsRowErrors(t *testing.T) {
	env := newTestEnv(t)
	env.addDevice(t, "dev-001", model.DeviceStatusActive, model.LatLng{})
	s := NewDeviceSheetService(env.devices, env.store.Trips, zap.NewNop())

	sheet := buildSheet(t, [][]interface{}{
		{"Device ID*", "Name*", "Firmware Version", "Latitude", "Longitude"},
		{"dev-010", "Van", "", 34.1, -118.2},
		{"dev-011", "Van 2", "", "abc", ""},
		{"dev-012", "", "", "", ""},
		{"dev-010", "Van again", "", "", ""},
		{"dev-001", "Existing", "", "", ""},
	})

	result, err := s.Import(context.Background(), env.user.ID, sheet)
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalCount)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 4, result.ErrorCount)

	byRow := make(map[int]model.DeviceImportError)
	for _, e := range result.Errors {
		byRow[e.RowNum] = e
	}
	assert.Equal(t, "lat", byRow[3].Field)
	assert.Equal(t, "name", byRow[4].Field)
	assert.Equal(t, "duplicate of row 2", byRow[5].Error)
	assert.Equal(t, "device already exists", byRow[6].Error)
}

func TestDeviceSheetService_ImportRejectsMalformedSheets(t *testing.T) {
	env := newTestEnv(t)
	s := NewDeviceSheetService(env.devices, env.store.Trips, zap.NewNop())

	_, err := s.Import(context.Background(), env.user.ID, strings.NewReader("not a workbook"))
	assert.ErrorIs(t, err, ErrInvalidSheet)

	_, err = s.Import(context.Background(), env.user.ID, buildSheet(t, [][]interface{}{{"Name"}, {"Van"}}))
	assert.ErrorIs(t, err, ErrInvalidSheet)

	_, err = s.Import(context.Background(), env.user.ID, buildSheet(t, [][]interface{}{{"Device ID", "Name"}}))
	assert.ErrorIs(t, err, ErrInvalidSheet)
}

func TestDeviceSheetService_ExportFleet(t *testing.T) {
	env := newTestEnv(t)
	env.addDevice(t, "dev-001", model.DeviceStatusActive, model.LatLng{Lat: 34.05, Lng: -118.24})
	seedTrip(t, env, "trip-001", "dev-001", time.Now().Add(-2*time.Hour), []model.LatLng{{Lat: 34.05, Lng: -118.24}})
	s := NewDeviceSheetService(env.devices, env.store.Trips, zap.NewNop())

	buf, err := s.ExportFleet(context.Background(), env.user.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{fleetSheet, tripsSheet}, f.GetSheetList())

	id, err := f.GetCellValue(fleetSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "dev-001", id)

	trips, err := f.GetCellValue(tripsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", trips)
	distance, err := f.GetCellValue(tripsSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "10", distance)
}
