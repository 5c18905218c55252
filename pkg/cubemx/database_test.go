package cubemx

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOpenMissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nowhere"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenWithoutMcuDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "mcu"), []byte("file"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	_, err := Open(root)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListParts(t *testing.T) {
	db, err := Open(standardDatabase(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	tests := []struct {
		pattern string
		want    []string
	}{
		{"", []string{"STM32F103C(8-B)Tx", "STM32F401CCUx"}},
		{"^STM32F4", []string{"STM32F401CCUx"}},
		{`F103C\(8`, []string{"STM32F103C(8-B)Tx"}},
		{"STM32L4", nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := db.ListParts(tt.pattern)
			if err != nil {
				t.Fatalf("ListParts failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListParts(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestListPartsInvalidPattern(t *testing.T) {
	db, err := Open(standardDatabase(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := db.ListParts("STM32("); err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestLoadPartAF(t *testing.T) {
	db, err := Open(standardDatabase(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	part, err := db.LoadPart("STM32F401CCUx")
	if err != nil {
		t.Fatalf("LoadPart failed: %v", err)
	}
	if part.Mode != ModeAF {
		t.Errorf("Mode = %v, want AF", part.Mode)
	}
	sig := part.Pins[0].Signals[0]
	if sig.Name != "USART1_TX" || sig.Map.Kind != MapAF || sig.Map.AF != 7 {
		t.Errorf("unexpected PA9 signal %+v", sig)
	}
}

func TestLoadPartRemap(t *testing.T) {
	db, err := Open(standardDatabase(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	part, err := db.LoadPart("STM32F103C(8-B)Tx")
	if err != nil {
		t.Fatalf("LoadPart failed: %v", err)
	}
	if part.Mode != ModeRemap {
		t.Errorf("Mode = %v, want REMAP", part.Mode)
	}
	if part.Summary() != "STM32F103C(8-B)Tx: STM32F103 LQFP48" {
		t.Errorf("Summary = %q", part.Summary())
	}
}

func TestLoadPartCaseInsensitive(t *testing.T) {
	db, err := Open(standardDatabase(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	part, err := db.LoadPart("stm32f401ccux")
	if err != nil {
		t.Fatalf("LoadPart failed: %v", err)
	}
	if part.Name != "STM32F401CCUx" {
		t.Errorf("Name = %q, want database spelling", part.Name)
	}
}

func TestLoadPartNotFound(t *testing.T) {
	db, err := Open(standardDatabase(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for _, name := range []string{"STM32H743ZITx", ""} {
		part, err := db.LoadPart(name)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("LoadPart(%q): expected ErrNotFound, got %v", name, err)
		}
		if part != nil {
			t.Errorf("LoadPart(%q): no part expected", name)
		}
	}
}

func TestLoadPartMissingModesDocument(t *testing.T) {
	root := writeDatabase(t, map[string][]byte{
		"mcu/STM32F401CCUx.xml.gz": gzipBytes(t, twoPinMCU),
	})
	db, err := Open(root)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := db.LoadPart("STM32F401CCUx"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadPartCorruptGzip(t *testing.T) {
	valid := gzipBytes(t, twoPinMCU)
	tests := []struct {
		name string
		data []byte
	}{
		{"not gzip", []byte("<Mcu/>")},
		{"truncated", valid[:len(valid)/2]},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeDatabase(t, map[string][]byte{
				"mcu/STM32F401CCUx.xml.gz": tt.data,
			})
			db, err := Open(root)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if _, err := db.LoadPart("STM32F401CCUx"); !errors.Is(err, ErrDecompression) {
				t.Fatalf("expected ErrDecompression, got %v", err)
			}
		})
	}
}

func TestLoadPartMalformed(t *testing.T) {
	root := writeDatabase(t, map[string][]byte{
		"mcu/BAD.xml.gz": gzipBytes(t, `<Mcu Line="L"><IP Name="GPIO" Version="v"/></Mcu>`),
	})
	db, err := Open(root)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	part, err := db.LoadPart("BAD")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if part != nil {
		t.Fatal("no part expected")
	}
}

func TestLoadPartLogsWithLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := Open(standardDatabase(t), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := db.LoadPart("STM32F401CCUx"); err != nil {
		t.Fatalf("LoadPart failed: %v", err)
	}
	if n := logs.FilterMessage("part loaded").Len(); n != 1 {
		t.Errorf("expected one 'part loaded' entry, got %d", n)
	}
	if n := logs.FilterMessage("reading document").Len(); n != 2 {
		t.Errorf("expected two 'reading document' entries, got %d", n)
	}
}
