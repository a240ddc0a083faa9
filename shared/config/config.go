package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds settings safe to expose to clients and tests. Zero values are
// replaced with the defaults below, which mirror the original deployment.
type Public struct {
	JwtTTL                time.Duration `yaml:"jwt_ttl"`
	ExcerptsPerThread     int           `yaml:"excerpts_per_thread"`
	ExcerptsSubstring     int           `yaml:"excerpts_substring"`
	MaxThreadResults      int           `yaml:"max_thread_search_results"`
	CremeOfTheTopMax      int           `yaml:"creme_of_the_top_max"`
	MaxThreadReplies      int           `yaml:"max_thread_replies"`
	MaxReplySubreplies    int           `yaml:"max_reply_subreplies"`
	MaxNotifListResults   int           `yaml:"max_notif_list_results"`
	AliasChangeRateHours  int           `yaml:"alias_change_rate"`
	MaxUploadSize         int64         `yaml:"max_upload_size"`
	AllowedImageMimeTypes []string      `yaml:"image_mime_type"`
	AllowedVideoMimeTypes []string      `yaml:"video_mime_type"`
	MediaDir              string        `yaml:"media_dir"`
	LogLevel              string        `yaml:"log_level"`
	LogJSON               bool          `yaml:"log_json"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

// applyDefaults fills unset Public fields. Changing limits does not
// retroactively rescore or re-trim existing threads.
func (p *Public) applyDefaults() {
	if p.JwtTTL == 0 {
		p.JwtTTL = 24 * time.Hour
	}
	if p.ExcerptsPerThread == 0 {
		p.ExcerptsPerThread = 3
	}
	if p.ExcerptsSubstring == 0 {
		p.ExcerptsSubstring = 30
	}
	if p.MaxThreadResults == 0 {
		p.MaxThreadResults = 250
	}
	if p.CremeOfTheTopMax == 0 {
		p.CremeOfTheTopMax = 10
	}
	if p.MaxThreadReplies == 0 {
		p.MaxThreadReplies = 500
	}
	if p.MaxReplySubreplies == 0 {
		p.MaxReplySubreplies = 50
	}
	if p.MaxNotifListResults == 0 {
		p.MaxNotifListResults = 300
	}
	if p.AliasChangeRateHours == 0 {
		p.AliasChangeRateHours = 24
	}
	if p.MaxUploadSize == 0 {
		p.MaxUploadSize = 7340032 // 7 MiB
	}
	if len(p.AllowedImageMimeTypes) == 0 {
		p.AllowedImageMimeTypes = []string{"image/gif", "image/jpeg", "image/png"}
	}
	if len(p.AllowedVideoMimeTypes) == 0 {
		p.AllowedVideoMimeTypes = []string{"video/webm", "video/mp4"}
	}
	if p.MediaDir == "" {
		p.MediaDir = "media"
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + configPath)
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.applyDefaults()

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}

// Default returns a config with all defaults applied and no credentials.
// Used by tests that never touch the database.
func Default() *Config {
	var public Public
	public.applyDefaults()
	return &Config{Public: public}
}
