/*
   CardFS - SD card file access layer
   Copyright (c) 2022, the CardFS authors

   This file is part of CardFS.

   CardFS is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   CardFS is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with CardFS. If not, see <http://www.gnu.org/licenses/>.
*/

package run

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const runnerHelpEpilogue = `Settings can also be provided via environment
variables with prefix 'CARDFS_', e.g. CARDFS_ADDRESS for --address.
`

/*
	NewRunner wraps a cobra command so that individual commands only have
	to declare their settings and a run function. Every setting is exposed
	as a command line flag and as a CARDFS_ environment variable, with the
	flag taking precedence.
*/
func NewRunner(use, short, long, prolog, epilog string, run func() error) *Runner {

	r := &Runner{config: viper.New()}

	r.cmd = &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          fmt.Sprintf("%s%s\n%s", prolog, long, epilog),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	r.config.SetEnvPrefix("cardfs")
	r.config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	r.config.AutomaticEnv()

	return r
}

//
type Runner struct {
	cmd      *cobra.Command
	config   *viper.Viper
	settings []*setting
	//
	Address string
}

//
type setting struct {
	target interface{}
	name   string
	flag   *pflag.Flag
}

// AddBaseSettings adds the settings every client command carries.
func (r *Runner) AddBaseSettings() {
	r.AddSetting(&r.Address, "address", "a", "CARDFS_ADDRESS",
		"localhost:8888", "daemon address", false)
}

/*
	AddSetting declares a setting backed by target, which must be a pointer
	to string, int, uint, or bool. def provides the default; nil leaves the
	type's zero value. config optionally names the environment variable,
	for documentation only since all settings get one via the prefix.
*/
func (r *Runner) AddSetting(target interface{}, name, shorthand, config string,
	def interface{}, help string, required bool) {

	if config != "" {
		help = fmt.Sprintf("%s [%s]", help, config)
	}

	flags := r.cmd.Flags()

	switch t := target.(type) {

	case *string:
		d := ""
		if def != nil {
			d = def.(string)
		}
		flags.StringVarP(t, name, shorthand, d, help)

	case *int:
		d := 0
		if def != nil {
			d = def.(int)
		}
		flags.IntVarP(t, name, shorthand, d, help)

	case *uint:
		var d uint
		if def != nil {
			d = def.(uint)
		}
		flags.UintVarP(t, name, shorthand, d, help)

	case *bool:
		d := false
		if def != nil {
			d = def.(bool)
		}
		flags.BoolVarP(t, name, shorthand, d, help)

	default:
		panic(fmt.Sprintf("unsupported setting type for '%s'", name))
	}

	if required {
		cobra.MarkFlagRequired(flags, name)
	}

	r.config.BindPFlag(name, flags.Lookup(name))

	r.settings = append(r.settings, &setting{
		target: target,
		name:   name,
		flag:   flags.Lookup(name),
	})
}

// ParseSettings fills in environment values for all settings whose flags
// were not given on the command line. Call at the start of Run.
func (r *Runner) ParseSettings() {

	for _, s := range r.settings {
		if s.flag.Changed {
			continue
		}
		switch t := s.target.(type) {
		case *string:
			*t = r.config.GetString(s.name)
		case *int:
			*t = r.config.GetInt(s.name)
		case *uint:
			*t = r.config.GetUint(s.name)
		case *bool:
			*t = r.config.GetBool(s.name)
		}
	}
}

//
func (r *Runner) IsSet(name string) bool {
	if s := r.cmd.Flags().Lookup(name); s != nil && s.Changed {
		return true
	}
	return r.config.IsSet(name)
}

//
func (r *Runner) Execute(args []string) error {
	if args == nil {
		args = []string{}
	}
	r.cmd.SetArgs(args)
	return r.cmd.Execute()
}

// apiCall sends a request to the daemon's control API and returns the
// response body. Non-2xx responses come back as errors carrying the body.
func (r *Runner) apiCall(method, path string, wantJSON bool,
	body io.Reader) (io.ReadCloser, error) {

	addr := r.Address
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	req, err := http.NewRequest(method, addr+path, body)
	if err != nil {
		return nil, err
	}
	if wantJSON {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := ioutil.ReadAll(resp.Body)
		return nil, fmt.Errorf("daemon replied with %s: %s",
			resp.Status, strings.TrimSpace(string(msg)))
	}

	return resp.Body, nil
}
