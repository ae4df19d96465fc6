package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// applyEnv overrides cfg from the environment. Every section carries an
// `envPrefix` tag and every leaf an `env` suffix, so Database.Host is read
// from DB_HOST. String leaves also accept <NAME>_FILE, whose trimmed content
// is used when <NAME> itself is unset; this is how secrets are mounted.
func applyEnv(cfg *Config) error {
	return applyEnvSection(reflect.ValueOf(cfg).Elem(), "")
}

func applyEnvSection(section reflect.Value, prefix string) error {
	typ := section.Type()
	for i := 0; i < section.NumField(); i++ {
		field, sf := section.Field(i), typ.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnvSection(field, prefix+sf.Tag.Get("envPrefix")); err != nil {
				return err
			}
			continue
		}

		suffix := sf.Tag.Get("env")
		if suffix == "" {
			continue
		}
		name := prefix + suffix

		raw, ok, err := lookupEnv(name, field.Kind() == reflect.String)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := setFromEnv(field, strings.TrimSpace(raw)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func lookupEnv(name string, allowFile bool) (string, bool, error) {
	if v, ok := os.LookupEnv(name); ok {
		return v, true, nil
	}
	if !allowFile {
		return "", false, nil
	}
	path, ok := os.LookupEnv(name + "_FILE")
	if !ok || path == "" {
		return "", false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("%s_FILE: %w", name, err)
	}
	return string(data), true, nil
}

func setFromEnv(field reflect.Value, value string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q", value)
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(value)
	case field.Kind() == reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		field.SetInt(int64(n))
	case field.Kind() == reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported config field type %s", field.Type())
	}
	return nil
}

// parseBool accepts the usual strconv forms plus yes/no and on/off.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(value)
}
