// Package common provides configuration, logging and small shared helpers.
//
// Config strings may reference values held in the key/value store using
// the {key-name} syntax, so secrets such as the WebDAV password need not
// live in the TOML file:
//
//	password = "{webdav_password}"
//
// Missing keys leave the reference untouched and log a warning.
package common

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/ternarybob/arbor"
)

var keyRefPattern = regexp.MustCompile(`\{([a-zA-Z0-9_-]+)\}`)

// ReplaceKeyReferences replaces every {key-name} in input with its value from kvMap
func ReplaceKeyReferences(input string, kvMap map[string]string, logger arbor.ILogger) string {
	if input == "" {
		return input
	}

	return keyRefPattern.ReplaceAllStringFunc(input, func(match string) string {
		keyName := match[1 : len(match)-1]
		if value, ok := kvMap[keyName]; ok {
			return value
		}
		logger.Warn().Str("key", keyName).Msg("Unresolved key reference")
		return match
	})
}

// ReplaceInStruct walks the string fields of a struct pointer (including
// nested structs, string slices and string maps) and resolves references
// in place. Values are never logged since they are usually secrets.
func ReplaceInStruct(v interface{}, kvMap map[string]string, logger arbor.ILogger) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("ReplaceInStruct requires a struct pointer, got %T", v)
	}
	replaceInValue(val.Elem(), kvMap, logger)
	return nil
}

func replaceInValue(val reflect.Value, kvMap map[string]string, logger arbor.ILogger) {
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			if resolved := ReplaceKeyReferences(field.String(), kvMap, logger); resolved != field.String() {
				field.SetString(resolved)
				logger.Debug().Str("field", val.Type().Field(i).Name).Msg("Resolved key reference")
			}

		case reflect.Struct:
			replaceInValue(field, kvMap, logger)

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
				replaceInValue(field.Elem(), kvMap, logger)
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				elem.SetString(ReplaceKeyReferences(elem.String(), kvMap, logger))
			}

		case reflect.Map:
			if field.Type().Key().Kind() != reflect.String || field.Type().Elem().Kind() != reflect.String || field.IsNil() {
				continue
			}
			for _, key := range field.MapKeys() {
				resolved := ReplaceKeyReferences(field.MapIndex(key).String(), kvMap, logger)
				field.SetMapIndex(key, reflect.ValueOf(resolved))
			}
		}
	}
}
