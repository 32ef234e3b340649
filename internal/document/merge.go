// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package document

import (
	"reflect"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// Merger is implemented by values that copy themselves from a freshly
// decoded instance. MergeFrom uses it instead of field reflection.
type Merger interface {
	MergeFrom(src any) error
}

// MergeFrom copies every exported field of src onto dst, leaving dst's
// identity and unexported state untouched. Both must be non-nil pointers to
// the same type.
func MergeFrom(dst, src any) error {
	if m, ok := dst.(Merger); ok {
		return m.MergeFrom(src)
	}

	dv := reflect.ValueOf(dst)
	sv := reflect.ValueOf(src)
	if dv.Kind() != reflect.Pointer || dv.IsNil() || sv.Kind() != reflect.Pointer || sv.IsNil() {
		return exilederr.Errorf(exilederr.CodeDocumentMergeInvalid,
			"merge needs two non-nil pointers, got %T and %T", dst, src)
	}
	if dv.Type() != sv.Type() {
		return exilederr.Errorf(exilederr.CodeDocumentMergeInvalid,
			"merge type mismatch: %T and %T", dst, src)
	}

	de, se := dv.Elem(), sv.Elem()
	if de.Kind() != reflect.Struct {
		de.Set(se)
		return nil
	}

	t := de.Type()
	for i := range t.NumField() {
		if !t.Field(i).IsExported() {
			continue
		}
		de.Field(i).Set(se.Field(i))
	}
	return nil
}
