package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "E100",
			wantMsg: "Domain config failed to load",
			wantCat: CategoryConfig,
		},
		{
			name:    "manifest error",
			code:    "E120",
			wantMsg: "Duplicate route ID",
			wantCat: CategoryManifest,
		},
		{
			name:    "publish error",
			code:    "E140",
			wantMsg: "Manifest publish failed",
			wantCat: CategoryPublish,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "code only",
			err:  New("E120"),
			want: "E120: Duplicate route ID",
		},
		{
			name: "with file",
			err:  New("E101").WithFile("app/admin/config.cue"),
			want: "E101: Domain config syntax error (app/admin/config.cue)",
		},
		{
			name: "with cause",
			err:  New("E100").Wrap(fmt.Errorf("boom")),
			want: "E100: Domain config failed to load: boom",
		},
		{
			name: "no code",
			err:  &Error{Message: "test error"},
			want: "test error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "config.go")
	content := `package config

var RouteConfig = map[string]any{
	"basePath": 42,
}
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		line      int
		wantStart int
		wantLines []string
	}{
		{
			name:      "middle of file",
			line:      4,
			wantStart: 2,
			wantLines: []string{"", "var RouteConfig = map[string]any{", "\t\"basePath\": 42,", "}"},
		},
		{
			name:      "first line",
			line:      1,
			wantStart: 1,
			wantLines: []string{"package config", "", "var RouteConfig = map[string]any{"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New("E102").WithLocation(tmpFile, tt.line, 14)

			if err.Location == nil || err.Location.File != tmpFile || err.Location.Line != tt.line {
				t.Fatalf("Location = %+v", err.Location)
			}
			if err.ContextStart != tt.wantStart {
				t.Errorf("ContextStart = %d, want %d", err.ContextStart, tt.wantStart)
			}
			if strings.Join(err.Context, "\n") != strings.Join(tt.wantLines, "\n") {
				t.Errorf("Context = %q, want %q", err.Context, tt.wantLines)
			}
		})
	}
}

func TestError_WithLocation_MissingFile(t *testing.T) {
	err := New("E101").WithLocation(filepath.Join(t.TempDir(), "gone.cue"), 3, 1)
	if len(err.Context) != 0 {
		t.Errorf("Context = %q, want none for an unreadable file", err.Context)
	}
	if got := err.Location.String(); !strings.HasSuffix(got, "gone.cue:3:1") {
		t.Errorf("Location = %q", got)
	}
}

func TestError_Wrap(t *testing.T) {
	inner := fmt.Errorf("inner")
	outer := New("E100").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E100") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	fe := New("E120")
	if FromError(fe, "E100") != fe {
		t.Error("FromError should return *Error as-is")
	}

	wrapped := fmt.Errorf("building: %w", fe)
	if FromError(wrapped, "E100") != fe {
		t.Error("FromError should find *Error in the chain")
	}

	stdErr := &testError{msg: "test error"}
	result := FromError(stdErr, "E100")
	if result.Wrapped != stdErr {
		t.Error("Standard error should be wrapped")
	}
	if result.Code != "E100" {
		t.Errorf("Code = %q, want E100", result.Code)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("ctx: %w", New("E131"))); got != "E131" {
		t.Errorf("CodeOf() = %q, want E131", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("CodeOf() = %q, want empty", got)
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{name: "nil location", loc: nil, want: ""},
		{name: "file only", loc: &Location{File: "config.cue"}, want: "config.cue"},
		{name: "with column", loc: &Location{File: "config.go", Line: 10, Column: 5}, want: "config.go:10:5"},
		{name: "without column", loc: &Location{File: "config.go", Line: 10}, want: "config.go:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	withoutColors(t)

	err := New("E101").
		WithFile("app/admin/config.cue").
		WithSuggestion("Run 'cue vet' on the file").
		Wrap(fmt.Errorf("expected '}', found 'EOF'"))

	formatted := err.Format()

	for _, want := range []string{
		"ERROR E101: Domain config syntax error",
		"app/admin/config.cue",
		"Cause: expected '}', found 'EOF'",
		"Hint: Run 'cue vet' on the file",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q in:\n%s", want, formatted)
		}
	}
}

func TestFormat_SourceContext(t *testing.T) {
	withoutColors(t)

	tmpFile := filepath.Join(t.TempDir(), "config.cue")
	content := "basePath: \"/shop\"\nbroken: {\nother: 1\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	formatted := New("E101").WithLocation(tmpFile, 2, 9).Format()

	for _, want := range []string{
		tmpFile + ":2:9",
		"     1 │ basePath: \"/shop\"",
		"  →    2 │ broken: {",
		"         │         ^",
		"     3 │ other: 1",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q in:\n%s", want, formatted)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E101").WithLocation("app/shop/config.go", 2, 18).Wrap(fmt.Errorf("missing ','"))

	var got map[string]any
	if decodeErr := json.Unmarshal([]byte(err.FormatJSON()), &got); decodeErr != nil {
		t.Fatalf("FormatJSON() is not JSON: %v", decodeErr)
	}

	want := map[string]any{
		"code":     "E101",
		"category": "config",
		"message":  "Domain config syntax error",
		"cause":    "missing ','",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	loc, _ := got["location"].(map[string]any)
	if loc["file"] != "app/shop/config.go" || loc["line"] != float64(2) || loc["column"] != float64(18) {
		t.Errorf("location = %v", got["location"])
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	PrintJSON(&buf, fmt.Errorf("plain failure"))
	if got := buf.String(); got != `{"message":"plain failure"}`+"\n" {
		t.Errorf("PrintJSON() = %q", got)
	}

	buf.Reset()
	PrintJSON(&buf, fmt.Errorf("wrapped: %w", New("E131")))
	if !strings.Contains(buf.String(), `"code":"E131"`) {
		t.Errorf("PrintJSON() = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	want := []string{"one two", "three", "four five"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("wrapText() = %q, want %q", lines, want)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestPrintError(t *testing.T) {
	withoutColors(t)

	var buf bytes.Buffer
	PrintError(&buf, fmt.Errorf("wrapped: %w", New("E131")))
	if !strings.Contains(buf.String(), "ERROR E131: Root route missing") {
		t.Errorf("PrintError() = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, fmt.Errorf("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("PrintError() = %q", buf.String())
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("E120")
	if !ok {
		t.Fatal("E120 should exist")
	}
	if template.Category != CategoryManifest {
		t.Errorf("Category = %q", template.Category)
	}

	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not exist")
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if !slices.IsSorted(codes) {
		t.Errorf("GetAllCodes() not sorted: %v", codes)
	}
	for _, code := range []string{"E100", "E101", "E102", "E110", "E111", "E120", "E121", "E131", "E140"} {
		if !slices.Contains(codes, code) {
			t.Errorf("%s should be in the codes list", code)
		}
	}
}

func withoutColors(t *testing.T) {
	t.Helper()
	prev := colorEnabled
	colorEnabled = false
	t.Cleanup(func() { colorEnabled = prev })
}
