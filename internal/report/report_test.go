package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/adilzhm/garagelog/internal/models"
)

func sampleVehicle() *models.Vehicle {
	return &models.Vehicle{
		ID:                     "veh-1",
		OwnerID:                "owner-1",
		Class:                  models.ClassCar,
		Plate:                  "AB 123 CD",
		TotalDistance:          5200,
		LastOilServiceDistance: 5200,
		Trips: []models.Trip{
			{ID: "t1", VehicleID: "veh-1", Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), Distance: 5200, Label: "road trip"},
		},
		History: []models.MaintenanceLogEntry{
			{ID: "m1", VehicleID: "veh-1", Kind: models.ServiceOil, Date: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), MileageAtService: 5200},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		raw     string
		want    Format
		wantErr bool
	}{
		{"", FormatExcel, false},
		{"xlsx", FormatExcel, false},
		{"pdf", FormatPDF, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestGenerateExcel(t *testing.T) {
	g := NewGenerator()
	content, err := g.Generate(sampleVehicle(), FormatExcel)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("expected non-empty xlsx content")
	}
	// xlsx is a zip container.
	if !bytes.HasPrefix(content, []byte("PK")) {
		t.Error("xlsx output does not look like a zip archive")
	}
}

func TestGeneratePDF(t *testing.T) {
	g := NewGenerator()
	content, err := g.Generate(sampleVehicle(), FormatPDF)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Error("pdf output missing %PDF header")
	}
}

func TestFileName(t *testing.T) {
	g := NewGenerator()
	name := g.FileName(sampleVehicle(), FormatPDF)
	if want := "vehicle-AB-123-CD-"; !bytes.HasPrefix([]byte(name), []byte(want)) {
		t.Errorf("FileName = %q, want prefix %q", name, want)
	}
	if !bytes.HasSuffix([]byte(name), []byte(".pdf")) {
		t.Errorf("FileName = %q, want .pdf suffix", name)
	}
}
