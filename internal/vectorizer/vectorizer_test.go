package vectorizer

import (
	"math"
	"reflect"
	"testing"
)

func TestDictVectorizerTransform(t *testing.T) {
	dv := NewDictVectorizer()
	got := dv.Transform(map[string]any{
		"has_picture":    true,
		"is_original":    false,
		"url_length":     42,
		"complexity":     3.5,
		"file_extension": "jpg",
		"ignored":        []string{"x"},
	})
	want := map[string]float64{
		"has_picture":        1,
		"is_original":        0,
		"url_length":         42,
		"complexity":         3.5,
		"file_extension_jpg": 1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Transform = %v, want %v", got, want)
	}
}

func TestDictVectorizerOverlayKeepsOneHot(t *testing.T) {
	dv := NewDictVectorizer()
	dst := map[string]float64{
		"file_extension_png":  1,
		"file_extension_jpeg": 0.3,
		"other":               7,
	}
	dv.Overlay(dst, map[string]any{"file_extension": "jpg"})

	if dst["file_extension_jpg"] != 1 {
		t.Errorf("file_extension_jpg = %v, want 1", dst["file_extension_jpg"])
	}
	if dst["file_extension_png"] != 0 || dst["file_extension_jpeg"] != 0 {
		t.Errorf("sibling columns not cleared: %v", dst)
	}
	if dst["other"] != 7 {
		t.Errorf("unrelated column changed: %v", dst["other"])
	}
}

func TestDictVectorizerCustomSeparator(t *testing.T) {
	dv := &DictVectorizer{Separator: "="}
	got := dv.Transform(map[string]any{"color": "red"})
	if got["color=red"] != 1 {
		t.Errorf("expected color=red, got %v", got)
	}
}

func TestProject(t *testing.T) {
	record := map[string]float64{"a": 1, "b": 2, "extra": 9, "bad": math.NaN()}
	got := Project(record, []string{"b", "missing", "a", "bad"})
	want := []float64{2, 0, 1, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Project = %v, want %v", got, want)
	}
	if len(Project(record, nil)) != 0 {
		t.Error("Project with no columns should be empty")
	}
}
