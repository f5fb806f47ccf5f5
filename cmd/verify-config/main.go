package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/EasterCompany/dex-voice-service/config"
	"gopkg.in/yaml.v3"
)

// ANSI color codes for formatted output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
)

func main() {
	fmt.Printf("%s--- Dexter Voice Config Verifier ---%s\n", ColorBlue, ColorReset)

	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	} else {
		p, err := config.DefaultPath()
		if err != nil {
			fmt.Printf("%s[FATAL]%s Could not determine config path: %v\n", ColorRed, ColorReset, err)
			os.Exit(1)
		}
		path = p
	}

	fmt.Printf("\nVerifying %s'%s'%s...\n", ColorBlue, filepath.Base(path), ColorReset)
	ok := verifyConfigFile(os.Stdout, path)

	fmt.Println("\n--------------------------")
	if ok {
		fmt.Printf("%s✅ Configuration file seems correct.%s\n", ColorGreen, ColorReset)
	} else {
		fmt.Printf("%s❌ Some issues were found in the configuration.%s\n", ColorRed, ColorReset)
		os.Exit(1)
	}
}

func verifyConfigFile(w io.Writer, path string) bool {
	// 1. Check file existence
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  %s[FAIL]%s File not found or not readable: %v\n", ColorRed, ColorReset, err)
		return false
	}
	fmt.Fprintf(w, "  %s[OK]%s File exists and is readable.\n", ColorGreen, ColorReset)

	// 2. Check syntax and unknown fields
	var cfg config.Config
	if err := decodeStrict(path, content, &cfg); err != nil {
		fmt.Fprintf(w, "  %s[FAIL]%s File is invalid or contains unexpected fields: %v\n", ColorRed, ColorReset, err)
		return false
	}
	fmt.Fprintf(w, "  %s[OK]%s Syntax is valid and all fields are recognized.\n", ColorGreen, ColorReset)

	// 3. Sections left out fall back to defaults
	val := reflect.ValueOf(cfg)
	typ := val.Type()
	var missing []string
	for i := 0; i < val.NumField(); i++ {
		if val.Field(i).IsZero() {
			missing = append(missing, strings.Split(typ.Field(i).Tag.Get("json"), ",")[0])
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(w, "  %s[WARN]%s These sections are absent and will use defaults: %v\n", ColorYellow, ColorReset, missing)
	}

	// 4. Semantic validation on the merged result
	if _, err := config.Load(path); err != nil {
		fmt.Fprintf(w, "  %s[FAIL]%s %v\n", ColorRed, ColorReset, err)
		return false
	}
	fmt.Fprintf(w, "  %s[OK]%s Backends and limits are valid.\n", ColorGreen, ColorReset)

	return true
}

func decodeStrict(path string, content []byte, cfg *config.Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return err
		}
		return nil
	case ".toml":
		meta, err := toml.Decode(string(content), cfg)
		if err != nil {
			return err
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown fields %v", undecoded)
		}
		return nil
	default:
		dec := json.NewDecoder(bytes.NewReader(content))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
}
