package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/charlie0129/i2cbatt/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		// The battery expansion board sits on bus 1 of the Raspberry Pi header.
		Bus:                 ptr.To(1),
		PollIntervalSeconds: ptr.To(10),
		HistorySize:         ptr.To(60),
		AllowNonRootAccess:  ptr.To(false),
		MQTT: &MQTT{
			TopicPrefix: "i2cbatt",
			Retain:      ptr.To(true),
		},
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

type RawFileConfig struct {
	Bus                 *int  `json:"bus,omitempty" yaml:"bus,omitempty"`
	PollIntervalSeconds *int  `json:"pollIntervalSeconds,omitempty" yaml:"pollIntervalSeconds,omitempty"`
	HistorySize         *int  `json:"historySize,omitempty" yaml:"historySize,omitempty"`
	AllowNonRootAccess  *bool `json:"allowNonRootAccess,omitempty" yaml:"allowNonRootAccess,omitempty"`
	MQTT                *MQTT `json:"mqtt,omitempty" yaml:"mqtt,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	m := c.MQTT()
	return &RawFileConfig{
		Bus:                 ptr.To(c.Bus()),
		PollIntervalSeconds: ptr.To(int(c.PollInterval() / time.Second)),
		HistorySize:         ptr.To(c.HistorySize()),
		AllowNonRootAccess:  ptr.To(c.AllowNonRootAccess()),
		MQTT:                &m,
	}, nil
}

func (f *File) Bus() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Bus != nil {
		return *f.c.Bus
	}
	return *defaultFileConfig.Bus
}

func (f *File) PollInterval() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	seconds := *defaultFileConfig.PollIntervalSeconds
	if f.c.PollIntervalSeconds != nil && *f.c.PollIntervalSeconds > 0 {
		seconds = *f.c.PollIntervalSeconds
	}

	return time.Duration(seconds) * time.Second
}

func (f *File) HistorySize() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.HistorySize != nil && *f.c.HistorySize > 0 {
		return *f.c.HistorySize
	}
	return *defaultFileConfig.HistorySize
}

func (f *File) AllowNonRootAccess() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.AllowNonRootAccess != nil {
		return *f.c.AllowNonRootAccess
	}
	return *defaultFileConfig.AllowNonRootAccess
}

// MQTT returns the MQTT settings with defaults filled in.
func (f *File) MQTT() MQTT {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	m := *defaultFileConfig.MQTT
	if f.c.MQTT == nil {
		return m
	}

	m.Server = f.c.MQTT.Server
	m.ClientID = f.c.MQTT.ClientID
	if f.c.MQTT.TopicPrefix != "" {
		m.TopicPrefix = f.c.MQTT.TopicPrefix
	}
	if f.c.MQTT.Retain != nil {
		m.Retain = ptr.To(*f.c.MQTT.Retain)
	}

	return m
}

func (f *File) SetBus(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Bus = &i
}

func (f *File) SetPollInterval(d time.Duration) {
	if f.c == nil {
		panic("config is nil")
	}

	seconds := int(d / time.Second)
	if seconds < 1 {
		panic("poll interval must be at least 1 second")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.PollIntervalSeconds = &seconds
}

func (f *File) SetAllowNonRootAccess(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.AllowNonRootAccess = &b
}

// isYAML tells the file format from the extension. Anything but .yaml and
// .yml is JSON.
func (f *File) isYAML() bool {
	switch strings.ToLower(filepath.Ext(f.filepath)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if f.isYAML() {
		err = yaml.Unmarshal(b, &conf)
	} else {
		err = json.Unmarshal(b, &conf)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	if f.isYAML() {
		enc := yaml.NewEncoder(fp)
		enc.SetIndent(2)
		err = enc.Encode(f.c)
		if err == nil {
			err = enc.Close()
		}
	} else {
		enc := json.NewEncoder(fp)
		enc.SetIndent("", "  ")
		err = enc.Encode(f.c)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	m := f.MQTT()
	return logrus.Fields{
		"bus":                f.Bus(),
		"pollInterval":       f.PollInterval().String(),
		"historySize":        f.HistorySize(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
		"mqttServer":         m.Server,
		"mqttTopicPrefix":    m.TopicPrefix,
	}
}
