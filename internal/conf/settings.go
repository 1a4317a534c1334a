package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Setting struct {
	vp *viper.Viper
}

func NewSetting(configPath ...string) (*Setting, error) {
	vp := viper.New()
	vp.SetConfigName("config")
	vp.AddConfigPath(".")
	vp.AddConfigPath("custom/")
	for _, path := range configPath {
		if path != "" {
			vp.AddConfigPath(path)
		}
	}
	vp.SetConfigType("yaml")
	err := vp.ReadInConfig()
	if err != nil {
		return nil, err
	}

	return &Setting{vp}, nil
}

func (s *Setting) ReadSection(k string, v interface{}) error {
	err := s.vp.UnmarshalKey(k, v)
	if err != nil {
		return err
	}
	return nil
}

func (s *Setting) FeaturesFrom(k string) *FeaturesSettingS {
	sub := s.vp.Sub(k)
	if sub == nil {
		return newFeatures(map[string][]string{}, map[string]string{})
	}
	suites := make(map[string][]string)
	kv := make(map[string]string)
	for key, value := range sub.AllSettings() {
		switch v := value.(type) {
		case []interface{}:
			suite := make([]string, 0, len(v))
			for _, item := range v {
				suite = append(suite, fmt.Sprintf("%v", item))
			}
			suites[key] = suite
		default:
			kv[key] = fmt.Sprintf("%v", value)
		}
	}
	return newFeatures(suites, kv)
}

type LoggerSettingS struct {
	Level string
}

type LoggerFileSettingS struct {
	SavePath string
	FileName string
	FileExt  string
	MaxSize  int
	MaxAge   int
}

type ServerSettingS struct {
	RunMode      string
	HttpIp       string
	HttpPort     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AppSettingS struct {
	DefaultPageSize int
	MaxPageSize     int
}

type CombinedFeedSettingS struct {
	MaxSearchFetch int
	CombineTimeout time.Duration
	DebounceDelay  time.Duration
}

type FeedSearchSettingS struct {
	MaxUpdateQPS int
	MinWorker    int
}

type BigCacheIndexSettingS struct {
	MaxIndexSizeMB int
	ExpireInSecond time.Duration
	Verbose        bool
}

type RedisSettingS struct {
	Host     string
	Password string
	DB       int
}

type MongoDBSettingS struct {
	User     string
	Password string
	Host     string
	DBName   string
}

func (s *MongoDBSettingS) Dsn() string {
	if s.User != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s", s.User, s.Password, s.Host)
	}
	return fmt.Sprintf("mongodb://%s", s.Host)
}

type MeiliSettingS struct {
	Host   string
	Index  string
	ApiKey string
	Secure bool
}

func (s *MeiliSettingS) Endpoint() string {
	if s.Secure {
		return "https://" + s.Host
	}
	return "http://" + s.Host
}

type FeaturesSettingS struct {
	suites   map[string][]string
	kv       map[string]string
	features map[string]string
}

func newFeatures(suites map[string][]string, kv map[string]string) *FeaturesSettingS {
	features := &FeaturesSettingS{
		suites: suites,
		kv:     kv,
	}
	features.UseDefault()
	return features
}

func (f *FeaturesSettingS) UseDefault() {
	f.features = make(map[string]string)
	f.flag("default")
}

func (f *FeaturesSettingS) Use(suite []string, noDefault bool) error {
	if noDefault {
		f.features = make(map[string]string)
	}
	for _, name := range suite {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f.flag(name)
	}
	return nil
}

func (f *FeaturesSettingS) flag(name string) {
	key := strings.ToLower(name)
	f.features[key] = f.kv[key]
	for _, member := range f.suites[key] {
		memberKey := strings.ToLower(member)
		f.features[memberKey] = f.kv[memberKey]
	}
}

// Cfg get value by key if exist
func (f *FeaturesSettingS) Cfg(key string) (string, bool) {
	v, ok := f.features[strings.ToLower(key)]
	return v, ok
}

// CfgIf check expression is true. The expression is either a bare feature
// name or "Name = Value".
func (f *FeaturesSettingS) CfgIf(expression string) bool {
	kv := strings.SplitN(expression, "=", 2)
	key := strings.TrimSpace(kv[0])
	v, ok := f.Cfg(key)
	if len(kv) == 2 {
		return ok && v == strings.TrimSpace(kv[1])
	}
	return ok
}
