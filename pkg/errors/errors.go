// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigParseInvalidFormat   Code = "config.parse.invalid_format"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeDocumentParseInvalidFormat   Code = "document.parse.invalid_format"
	CodeDocumentConvertInvalidFormat Code = "document.convert.invalid_format"
	CodeDocumentReadFailure          Code = "document.read.failure"
	CodeDocumentWriteFailure         Code = "document.write.failure"
	CodeDocumentMarshalFailure       Code = "document.marshal.failure"
	CodeDocumentEmpty                Code = "document.save.empty"
	CodeDocumentMergeInvalid         Code = "document.merge.invalid"
	CodeDocumentWatchFailure         Code = "document.watch.failure"

	CodePluginRegistryConflict           Code = "plugin.registry.conflict"
	CodePluginRegistryInvalid            Code = "plugin.registry.invalid"
	CodePluginNotFound                   Code = "plugin.not_found"
	CodePluginVersionInvalid             Code = "plugin.version.invalid"
	CodePluginVersionOutdated            Code = "plugin.version.outdated"
	CodePluginLifecycleTransitionInvalid Code = "plugin.lifecycle.transition.invalid"
	CodePluginLifecycleCallFailure       Code = "plugin.lifecycle.call.failure"

	CodeEventSubscriberFailure Code = "event.subscriber.failure"
	CodeEventTypeConflict      Code = "event.type.conflict"
	CodeEventNotFound          Code = "event.not_found"

	CodeHookTargetInvalid   Code = "hook.target.invalid"
	CodeHookTargetConflict  Code = "hook.target.conflict"
	CodeHookTargetNotFound  Code = "hook.target.not_found"
	CodeHookArgumentInvalid Code = "hook.argument.invalid"

	CodeCommandRegisterConflict Code = "command.register.conflict"
	CodeCommandRegisterInvalid  Code = "command.register.invalid"
	CodeCommandNotFound         Code = "command.not_found"
	CodeCommandExecuteFailure   Code = "command.execute.failure"

	CodeLoaderStartFailure    Code = "loader.start.failure"
	CodeLoaderShutdownFailure Code = "loader.shutdown.failure"

	CodeCLIInputInvalid Code = "cli.input.invalid"
	CodeCLISetupFailure Code = "cli.setup.failure"
	CodeInternalFailure Code = "internal.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// FieldValue creates a structured error field.
func FieldValue(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Field is kept as the primary helper for terse callsites.
func Field(key string, value any) Attr {
	return FieldValue(key, value)
}

func FieldPlugin(value string) Attr {
	return Field("plugin", value)
}

func FieldPrefix(value string) Attr {
	return Field("prefix", value)
}

func FieldPath(value string) Attr {
	return Field("path", value)
}

func FieldEvent(value string) Attr {
	return Field("event", value)
}

func FieldCommand(value string) Attr {
	return Field("command", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// With adds structured fields to an existing error chain.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeInternalFailure
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsConflict(err error) bool {
	return reason(CodeOf(err)) == "conflict"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

func IsFailure(err error) bool {
	return reason(CodeOf(err)) == "failure"
}

func Join(errs ...error) error {
	joined := stderrors.Join(errs...)
	if joined == nil {
		return nil
	}
	return oops.Code(CodeInternalFailure).Wrap(joined)
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
