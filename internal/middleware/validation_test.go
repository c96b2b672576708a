package middleware

import "testing"

func TestValidateYearMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty means no filter", "", "", false},
		{"valid", "2024-03", "2024-03", false},
		{"valid december", "2019-12", "2019-12", false},
		{"trims whitespace", " 2024-03 ", "2024-03", false},
		{"month zero", "2024-00", "", true},
		{"month 13", "2024-13", "", true},
		{"missing month", "2024", "", true},
		{"full date", "2024-03-05", "", true},
		{"garbage", "march-2024", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateYearMonth(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateReportName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"videos", "videos", "videos", false},
		{"correlations", "correlations", "correlations", false},
		{"case insensitive", "Monthly", "monthly", false},
		{"trims whitespace", " types ", "types", false},
		{"empty", "", "", true},
		{"unknown", "secrets", "", true},
		{"path traversal", "../etc/passwd", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateReportName(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
