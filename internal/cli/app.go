package cli

import (
	"fmt"
	"net"
	"os"

	"github.com/glftpd/glspy/internal/config"
	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/kick"
	"github.com/glftpd/glspy/internal/logger"
	"github.com/glftpd/glspy/internal/lookup"
	"github.com/glftpd/glspy/internal/session"
	"github.com/glftpd/glspy/internal/shm"
	"github.com/glftpd/glspy/internal/snapshot"
)

// appOptions are the global flag values that shape an app.
type appOptions struct {
	ConfigPath string
	LogFile    string
	From       string
	Refresh    string
	ShowAll    bool
	NoColor    bool
	Verbose    bool
	// Quiet logs nothing unless LogFile is set; the dashboard owns the
	// terminal.
	Quiet bool
}

func globalOptions() appOptions {
	return appOptions{
		ConfigPath: cfgFile,
		LogFile:    logFile,
		From:       fromFile,
		Refresh:    refreshFlag,
		ShowAll:    showAll,
		NoColor:    noColor,
		Verbose:    verbose,
	}
}

// app holds everything one command needs to read the online table.
type app struct {
	cfg        *config.Config
	configPath string
	log        logger.Logger
	source     shm.Reader
	groups     *lookup.Groups
	collector  *snapshot.Collector
	killer     *kick.Killer

	closers []func()
}

// newApp loads the config, applies flag overrides and builds the collector.
// A missing group file or glftpd.conf only degrades the output.
func newApp(opts appOptions) (*app, error) {
	cfg, path, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, configPath: path}

	log, closeLog, err := openLogger(opts)
	if err != nil {
		return nil, err
	}
	a.log = log
	a.closers = append(a.closers, closeLog)

	if opts.From != "" {
		a.source = snapshot.FileSource{Path: opts.From}
	} else {
		key, err := config.ParseIPCKey(cfg.IPCKey)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.source = shm.New(key)
	}

	groups, err := lookup.LoadGroups(cfg.GLRoot)
	if err != nil {
		a.log.Warn("%v", err)
	}
	a.groups = groups

	maxUsers := cfg.MaxUsers
	if maxUsers < 0 {
		maxUsers = lookup.ConfigMaxUsers(cfg.GLRoot)
		a.log.Debug("max_users from glftpd.conf: %d", maxUsers)
	}

	engine := &session.Engine{
		Threshold:   float64(cfg.SpeedThreshold),
		IdleBarrier: cfg.IdleBarrier,
		Policy:      policyFromConfig(cfg.Hidden),
		Files:       lookup.Files{Root: cfg.GLRoot},
		Resolver:    net.DefaultResolver,
		Log:         a.log,
	}
	if cfg.GeoIP.Enabled {
		geo := lookup.NewGeoIP(cfg.GeoIP.AccountID, cfg.GeoIP.LicenseKey, cfg.GeoIP.URL, cfg.GeoIP.Timeout)
		engine.Geo = geo
		a.closers = append(a.closers, geo.Close)
	}

	a.collector = snapshot.New(a.source, engine, groups, maxUsers, a.log)
	a.killer = kick.New(cfg.ProcessName, a.log)
	return a, nil
}

// Close releases log files and lookup workers.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func applyOverrides(cfg *config.Config, opts appOptions) error {
	if opts.ShowAll {
		cfg.Hidden.ShowAll = true
	}
	if opts.NoColor {
		cfg.Color = false
	}
	refresh, err := ParseRefresh(opts.Refresh)
	if err != nil {
		return err
	}
	if refresh > 0 {
		cfg.Refresh = refresh
	}
	return nil
}

func policyFromConfig(h config.HiddenConfig) session.Policy {
	return session.Policy{
		Users:           h.Users,
		Groups:          h.Groups,
		Directories:     h.Directories,
		CaseInsensitive: h.CaseInsensitive,
		Count:           h.Count,
		ShowAll:         h.ShowAll,
	}
}

func openLogger(opts appOptions) (logger.Logger, func(), error) {
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Couldn't open log file %s", opts.LogFile),
				"Check the path and its permissions")
		}
		return logger.NewWriterLogger(f, "[glspy]", opts.Verbose), func() { f.Close() }, nil
	}
	if opts.Quiet {
		return logger.Noop(), func() {}, nil
	}
	if opts.Verbose {
		return logger.NewWriterLogger(os.Stderr, "[glspy]", true), func() {}, nil
	}
	return logger.NewEnvLogger("[glspy]"), func() {}, nil
}

// usersDir is where the detail view and /user look for userfiles.
func (a *app) usersDir() string {
	return lookup.UsersDir(a.cfg.GLRoot)
}

// readUserfile loads the userfile of name, for the dashboard detail view.
func (a *app) readUserfile(name string) (*lookup.Userfile, error) {
	return lookup.ReadUserfile(a.usersDir(), name)
}
