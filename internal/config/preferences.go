package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables that override preferences.
const EnvPrefix = "BAYESNET_"

// Defaults applied before any other layer.
const (
	DefaultDelimiter     = "\t"
	DefaultGridSizeX     = 50
	DefaultGridSizeY     = 100
	DefaultDataThreshold = 0
	DefaultNetworkName   = "bayesnet"
	DefaultWorkers       = 1
)

// flagKeys maps CLI flag names to preference keys. Flags not listed here
// (paths, logging) are not preferences.
var flagKeys = map[string]string{
	"delimiter":      "csv_delimiter",
	"grid-size-x":    "grid_size_x",
	"grid-size-y":    "grid_size_y",
	"data-threshold": "data_threshold",
	"workers":        "workers",
	"max-conditions": "max_conditions",
	"network-name":   "network_name",
}

var delimiters = map[string]bool{"\t": true, " ": true, ",": true, ";": true}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("csvdelim", func(fl validator.FieldLevel) bool {
		return delimiters[fl.Field().String()]
	}); err != nil {
		panic(err)
	}
	return v
}

// ResolvePreferences layers defaults, the config file's preferences section,
// BAYESNET_* environment variables and explicitly set flags (highest
// priority), then validates the result. flags may be nil.
func ResolvePreferences(file map[string]interface{}, flags *pflag.FlagSet) (*Preferences, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"csv_delimiter":  DefaultDelimiter,
		"grid_size_x":    DefaultGridSizeX,
		"grid_size_y":    DefaultGridSizeY,
		"data_threshold": DefaultDataThreshold,
		"network_name":   DefaultNetworkName,
		"workers":        DefaultWorkers,
		"max_conditions": 0,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load default preferences: %w", err)
	}

	if len(file) > 0 {
		if err := k.Load(confmap.Provider(file, "."), nil); err != nil {
			return nil, fmt.Errorf("load file preferences: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env preferences: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flag preferences: %w", err)
		}
	}

	var p Preferences
	if err := k.Unmarshal("", &p); err != nil {
		return nil, &ConfigError{Section: "preferences", Index: -1, Msg: "cannot decode", Err: err}
	}
	p.CSVDelimiter = unescapeDelimiter(p.CSVDelimiter)

	if err := validate.Struct(&p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, prefErr(fe.Field(), "invalid value %v (rule '%s')", fe.Value(), fe.Tag())
		}
		return nil, &ConfigError{Section: "preferences", Index: -1, Err: err}
	}
	return &p, nil
}

// unescapeDelimiter turns the two-character escapes a shell or JSON string
// tends to carry into the actual separator.
func unescapeDelimiter(s string) string {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return "\t"
	case "space":
		return " "
	}
	return s
}
