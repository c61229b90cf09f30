package services

import (
	"bytes"
	"fmt"

	"call_flow_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const exportSheetName = "Appels"

// GenerateCallsExport builds an Excel workbook with all calls of a
// tenant, newest first. Used by the dashboard export endpoint.
func GenerateCallsExport(dbConn *gorm.DB, tenantID string) (*bytes.Buffer, error) {
	var calls []models.Call
	err := dbConn.Preload("Prospect").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&calls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load calls for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheetName)

	headers := []string{"Date", "Statut", "Direction", "Urgence", "Motif urgence", "Duree (s)", "Prospect", "Telephone", "Resume"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(exportSheetName, "A1", "I1", headerStyle)

	for row, call := range calls {
		values := []interface{}{
			call.CreatedAt.Format("2006-01-02 15:04"),
			call.Status,
			call.Direction,
			boolLabel(call.IsEmergency),
			deref(call.EmergencyType),
			nil,
			"",
			"",
			deref(call.Summary),
		}
		if call.Duration != nil {
			values[5] = *call.Duration
		}
		if call.Prospect != nil {
			values[6] = call.Prospect.FullName()
			values[7] = deref(call.Prospect.Phone)
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(exportSheetName, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write export workbook: %w", err)
	}
	return buf, nil
}

func boolLabel(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
