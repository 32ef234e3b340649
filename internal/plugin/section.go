// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package plugin

import (
	"reflect"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Section is one plugin's slot in a merged document: the live object the
// plugin holds, plus a snapshot of its values at registration time.
type Section struct {
	live     any
	elem     reflect.Type
	defaults []byte
}

// NewSection snapshots the current values of live as its defaults. live must
// be a non-nil pointer.
func NewSection(live any) (*Section, error) {
	v := reflect.ValueOf(live)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, exilederr.Errorf(exilederr.CodePluginRegistryInvalid,
			"section value must be a non-nil pointer, got %T", live)
	}

	defaults, err := yaml.Marshal(live)
	if err != nil {
		return nil, exilederr.Wrapf(err, exilederr.CodePluginRegistryInvalid,
			"snapshotting defaults of %T", live)
	}

	return &Section{live: live, elem: v.Type().Elem(), defaults: defaults}, nil
}

// Live returns the object the plugin holds.
func (s *Section) Live() any {
	return s.live
}

// Fresh returns a new instance of the live type populated with the
// registration-time defaults.
func (s *Section) Fresh() (any, error) {
	fresh := reflect.New(s.elem).Interface()
	if err := yaml.Unmarshal(s.defaults, fresh); err != nil {
		return nil, exilederr.Wrapf(err, exilederr.CodeDocumentConvertInvalidFormat,
			"restoring defaults of %s", s.elem)
	}
	return fresh, nil
}
