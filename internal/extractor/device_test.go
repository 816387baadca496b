package extractor

import (
	"fmt"
	"testing"
)

func deviceDocument(projectName, items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<project xmlns="http://pa.cellebrite.com/report/2.0" name="%s">
  <metadata section="Extraction Data">%s</metadata>
</project>`, projectName, items)
}

func TestDeviceLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		project string
		items   string
		want    string
	}{
		{
			name:    "manufacturer and device name",
			project: "Report 17",
			items: `<item name="DeviceInfoSelectedManufacturer">SAMSUNG</item>
                    <item name="DeviceInfoSelectedDeviceName">SM-G991B</item>`,
			want: "Samsung SM-G991B",
		},
		{
			name:    "device name only",
			project: "Report 17",
			items:   `<item name="DeviceInfoSelectedDeviceName">iPhone 12</item>`,
			want:    "iPhone 12",
		},
		{
			name:    "manufacturer only",
			project: "Report 17",
			items:   `<item name="DeviceInfoSelectedManufacturer">XIAOMI</item>`,
			want:    "Xiaomi",
		},
		{
			name:    "project name fallback",
			project: "Huawei P30 Extraction",
			items:   "",
			want:    "Huawei P30 Extraction",
		},
		{
			name:    "empty when nothing known",
			project: "",
			items:   "",
			want:    "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := parseSample(t, deviceDocument(tt.project, tt.items))
			if got := DeviceLabel(doc); got != tt.want {
				t.Errorf("DeviceLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
