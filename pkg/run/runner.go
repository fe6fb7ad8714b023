/*
   FluxDisk - flux level floppy disk decoder
   Copyright (c) 2022, Alexander Vollschwitz

   This file is part of FluxDisk.

   FluxDisk is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   FluxDisk is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with FluxDisk. If not, see <http://www.gnu.org/licenses/>.
*/

package run

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// prefix for environment variables that can be used instead of command line
// flags
const envPrefix = "FLUXDISK"

//
const runnerHelpEpilogue = `- Settings can also be provided via environment variables, named after the
  long form of the flag in upper case, with dashes replaced by underscores,
  and prefixed with FLUXDISK_, e.g. FLUXDISK_LOG_LEVEL=debug. Command line
  flags take precedence.

`

/*
	NewRunner creates a runner for a sub-command. use, short, and long are
	passed on to cobra. The help text of the command is assembled from
	helpPrefix, the flag usages, and helpEpilogue. exec is called when the
	command is run.
*/
func NewRunner(use, short, long, helpPrefix, helpEpilogue string,
	exec func() error) *Runner {

	r := &Runner{
		exec:     exec,
		settings: viper.New(),
		fields:   make(map[string]interface{}),
	}

	r.settings.SetEnvPrefix(envPrefix)
	r.settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	r.Command = cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.exec()
		},
		SilenceUsage: true,
	}

	// accept underscores in flag names, as used in environment variables
	r.Command.Flags().SetNormalizeFunc(
		func(f *pflag.FlagSet, name string) pflag.NormalizedName {
			return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
		})

	r.Command.SetUsageTemplate(helpPrefix + `
Usage:
  {{.UseLine}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

` + helpEpilogue)

	return r
}

// Runner is the base for all sub-commands
type Runner struct {
	cobra.Command
	//
	Address  string
	LogLevel string
	//
	exec     func() error
	settings *viper.Viper
	fields   map[string]interface{}
	required []string
}

// AddBaseSettings adds the settings common to all commands
func (r *Runner) AddBaseSettings() {
	r.AddSetting(&r.Address, "address", "a", "", "localhost:8888",
		"listen address and port of the FluxDisk API server", false)
	r.AddSetting(&r.LogLevel, "log-level", "", "", "warn",
		"log level: panic, fatal, error, warn, info, debug, trace", false)
}

/*
	AddSetting adds a setting to this runner. ref is a pointer to the field
	that receives the value when calling ParseSettings. The setting can be
	given via the command line flag name, with shorthand short if not empty,
	or via environment variable env. If env is empty, the variable name is
	derived from name. dflt is the default value, nil denotes the zero value.
*/
func (r *Runner) AddSetting(ref interface{}, name, short, env string,
	dflt interface{}, usage string, required bool) {

	flags := r.Command.Flags()

	switch v := ref.(type) {

	case *string:
		d := ""
		if dflt != nil {
			d = dflt.(string)
		}
		flags.StringP(name, short, d, usage)

	case *int:
		d := 0
		if dflt != nil {
			d = dflt.(int)
		}
		flags.IntP(name, short, d, usage)

	case *bool:
		d := false
		if dflt != nil {
			d = dflt.(bool)
		}
		flags.BoolP(name, short, d, usage)

	case *float64:
		d := 0.0
		if dflt != nil {
			d = dflt.(float64)
		}
		flags.Float64P(name, short, d, usage)

	case *time.Duration:
		var d time.Duration
		if dflt != nil {
			d = dflt.(time.Duration)
		}
		flags.DurationP(name, short, d, usage)

	default:
		panic(fmt.Sprintf("unsupported setting type for %s: %T", name, v))
	}

	if err := r.settings.BindPFlag(name, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("cannot bind flag %s: %v", name, err))
	}

	if env != "" {
		r.settings.BindEnv(name, env)
	} else {
		r.settings.BindEnv(name)
	}

	r.fields[name] = ref
	if required {
		r.required = append(r.required, name)
	}
}

/*
	ParseSettings transfers all setting values into their fields, and sets
	the log level. Flags take precedence over environment variables, which
	take precedence over defaults.
*/
func (r *Runner) ParseSettings() error {

	for _, name := range r.required {
		if !r.settings.IsSet(name) {
			return fmt.Errorf("required setting '%s' not set", name)
		}
	}

	for name, ref := range r.fields {
		switch v := ref.(type) {
		case *string:
			*v = r.settings.GetString(name)
		case *int:
			*v = r.settings.GetInt(name)
		case *bool:
			*v = r.settings.GetBool(name)
		case *float64:
			*v = r.settings.GetFloat64(name)
		case *time.Duration:
			*v = r.settings.GetDuration(name)
		}
	}

	if r.LogLevel != "" {
		level, err := log.ParseLevel(r.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	return nil
}

// IsSet determines whether setting name was explicitly given
func (r *Runner) IsSet(name string) bool {
	return r.settings.IsSet(name)
}

/*
	apiCall calls the API server at the configured address. On success, the
	response body is returned, and needs to be closed by the caller. A status
	other than 2xx is returned as an error carrying the server's message.
*/
func (r *Runner) apiCall(method, path string, json bool,
	body io.Reader) (io.ReadCloser, error) {

	req, err := http.NewRequest(method, apiURL(r.Address, path), body)
	if err != nil {
		return nil, err
	}

	if json {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	return resp.Body, nil
}

//
func apiURL(address, path string) string {
	if strings.HasPrefix(address, "http://") ||
		strings.HasPrefix(address, "https://") {
		return strings.TrimSuffix(address, "/") + path
	}
	return fmt.Sprintf("http://%s%s", address, path)
}

// GetUserConfirmation asks the user to confirm prompt with y or n
func GetUserConfirmation(prompt string) bool {

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Printf("%s [y/n]: ", prompt)
		resp, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(resp)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}
