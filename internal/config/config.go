// Package config loads casehist settings from CUE.
//
// A settings file is unified with the embedded #Config schema, which supplies
// defaults and rejects unknown fields and out-of-range values. The file may be
// a single .cue file or a directory holding one CUE package.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/casehistory/internal/purge"
)

//go:embed schema.cue
var schemaSource string

// Config holds the resolved settings.
type Config struct {
	Database           string `json:"database"`
	EntityLinksEnabled bool   `json:"entityLinksEnabled"`
	BulkBatchSize      int    `json:"bulkBatchSize"`
	LogLevel           string `json:"logLevel"`
}

// Error codes for LoadError.
const (
	ErrCodeNotFound    = "E101" // Config path not found
	ErrCodeLoadFailed  = "E102" // CUE load or parse failed
	ErrCodeInvalid     = "E103" // Config does not satisfy the schema
	ErrCodeDecodeError = "E104" // Concrete value could not be decoded
)

// LoadError represents an error that occurred while loading settings.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Default returns the schema defaults.
func Default() Config {
	ctx := cuecontext.New()
	cfg, err := resolve(ctx, ctx.CompileString("{}"))
	if err != nil {
		// The embedded schema is concrete on its own.
		panic(err)
	}
	return cfg
}

// Load reads settings from path, a .cue file or a directory.
// An empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config not found: %s", path)}
	}
	if err != nil {
		return Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing config: %v", err)}
	}

	ctx := cuecontext.New()
	var value cue.Value
	if info.IsDir() {
		instances := load.Instances([]string{"."}, &load.Config{Dir: path})
		if len(instances) == 0 {
			return Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
		}
		if err := instances[0].Err; err != nil {
			return Config{}, newLoadError(ErrCodeLoadFailed, "loading CUE files", err)
		}
		value = ctx.BuildInstance(instances[0])
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading config: %v", err)}
		}
		value = ctx.CompileBytes(data, cue.Filename(path))
	}
	if err := value.Err(); err != nil {
		return Config{}, newLoadError(ErrCodeLoadFailed, "building CUE value", err)
	}

	return resolve(ctx, value)
}

// resolve unifies value with the schema and decodes the result.
func resolve(ctx *cue.Context, value cue.Value) (Config, error) {
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, newLoadError(ErrCodeLoadFailed, "compiling schema", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, newLoadError(ErrCodeInvalid, "invalid config", err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, newLoadError(ErrCodeDecodeError, "decoding config", err)
	}
	return cfg, nil
}

// newLoadError converts a CUE error into a LoadError carrying the position of
// its first underlying error.
func newLoadError(code, context string, err error) *LoadError {
	le := &LoadError{Code: code, Message: fmt.Sprintf("%s: %v", context, err)}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Pos = errs[0].Position()
		le.Message = fmt.Sprintf("%s: %s", context, errs[0].Error())
	}
	return le
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to Info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PurgeConfig returns the purger capability flags.
func (c Config) PurgeConfig() purge.Config {
	return purge.Config{EntityLinksEnabled: c.EntityLinksEnabled}
}
