package todo

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func benchList(n int) List {
	l := make(List, 0, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		t := Task{ID: i, Description: fmt.Sprintf("Task %d", i), CreatedAt: base}
		if i%3 == 0 {
			done := base.Add(time.Duration(i) * time.Minute)
			t.Completed = true
			t.CompletedAt = &done
		}
		l = append(l, t)
	}
	return l
}

// BenchmarkLoad benchmarks backing file loading and parsing.
func BenchmarkLoad(b *testing.B) {
	path := filepath.Join(b.TempDir(), "tasks.json")
	if err := benchList(100).Save(path); err != nil {
		b.Fatalf("Failed to create test file: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(path); err != nil {
			b.Fatalf("Load failed: %v", err)
		}
	}
}

// BenchmarkSave benchmarks full-file rewrites.
func BenchmarkSave(b *testing.B) {
	path := filepath.Join(b.TempDir(), "tasks.json")
	l := benchList(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := l.Save(path); err != nil {
			b.Fatalf("Save failed: %v", err)
		}
	}
}

// BenchmarkNextID benchmarks id recomputation on a large list.
func BenchmarkNextID(b *testing.B) {
	l := benchList(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.NextID()
	}
}

// BenchmarkValidate benchmarks schema validation of encoded output.
func BenchmarkValidate(b *testing.B) {
	data, err := benchList(100).Encode()
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if result := Validate(data); !result.Valid {
			b.Fatalf("Validate failed: %v", result.Errors)
		}
	}
}
