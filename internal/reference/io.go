package reference

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agbru/fibgrade/internal/annotation"
	apperrors "github.com/agbru/fibgrade/internal/errors"
)

// Annotation type tags used in the persisted form.
const (
	kindValue          = "value"
	kindTimeComplexity = "time_complexity"
)

// annotationRecord is the on-disk form of a single annotation. Exactly the
// fields for the tagged kind are populated.
type annotationRecord struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Digest string `json:"digest,omitempty"`
	Repr   string `json:"repr,omitempty"`
	Label  string `json:"label,omitempty"`
	Class  string `json:"class,omitempty"`
}

// referenceRecord is the on-disk form of a reference implementation.
type referenceRecord struct {
	Name        string             `json:"name"`
	Annotations []annotationRecord `json:"annotations"`
}

func encodeAnnotation(ann annotation.Annotation) (annotationRecord, error) {
	switch a := ann.(type) {
	case *annotation.Value:
		return annotationRecord{
			Kind:   kindValue,
			Name:   a.Name(),
			Digest: a.Digest(),
			Repr:   a.Repr(),
		}, nil
	case *annotation.TimeComplexity:
		return annotationRecord{
			Kind:  kindTimeComplexity,
			Name:  a.Name(),
			Label: a.Label(),
			Class: a.Expected(),
		}, nil
	default:
		return annotationRecord{}, fmt.Errorf("annotation %q has unsupported type %T", ann.Name(), ann)
	}
}

func decodeAnnotation(rec annotationRecord) (annotation.Annotation, error) {
	switch rec.Kind {
	case kindValue:
		return annotation.NewValueFromDigest(rec.Name, rec.Digest, rec.Repr), nil
	case kindTimeComplexity:
		return annotation.NewTimeComplexity(rec.Name, rec.Label, rec.Class)
	default:
		return nil, fmt.Errorf("unknown annotation kind %q", rec.Kind)
	}
}

// Save writes the references as indented JSON, creating parent directories
// as needed. The file can be distributed and loaded on another machine;
// value annotations survive as digests.
func Save(path string, refs []*ReferenceImplementation) error {
	records := make([]referenceRecord, 0, len(refs))
	for _, ref := range refs {
		rec := referenceRecord{Name: ref.Name()}
		for _, ann := range ref.Annotations() {
			annRec, err := encodeAnnotation(ann)
			if err != nil {
				return apperrors.WrapError(err, "encoding reference %q", ref.Name())
			}
			rec.Annotations = append(rec.Annotations, annRec)
		}
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperrors.WrapError(err, "marshaling references")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "creating reference directory")
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.WrapError(err, "writing references to %s", path)
	}
	return nil
}

// Load reads references previously written by Save.
func Load(path string) ([]*ReferenceImplementation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading references from %s", path)
	}

	var records []referenceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.WrapError(err, "decoding references")
	}

	refs := make([]*ReferenceImplementation, 0, len(records))
	for _, rec := range records {
		anns := make([]annotation.Annotation, 0, len(rec.Annotations))
		for _, annRec := range rec.Annotations {
			ann, err := decodeAnnotation(annRec)
			if err != nil {
				return nil, apperrors.WrapError(err, "decoding reference %q", rec.Name)
			}
			anns = append(anns, ann)
		}
		ref, err := New(rec.Name, anns...)
		if err != nil {
			return nil, apperrors.WrapError(err, "reconstructing reference")
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
