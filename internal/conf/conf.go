package conf

import (
	"log"
	"reflect"
	"strings"
)

var (
	loggerSetting     *LoggerSettingS
	loggerFileSetting *LoggerFileSettingS
	redisSetting      *RedisSettingS
	features          *FeaturesSettingS

	ServerSetting        *ServerSettingS
	AppSetting           *AppSettingS
	CombinedFeedSetting  *CombinedFeedSettingS
	FeedSearchSetting    *FeedSearchSettingS
	BigCacheIndexSetting *BigCacheIndexSettingS
	MongoDBSetting       *MongoDBSettingS
	MeiliSetting         *MeiliSettingS
)

func setupSetting(suite []string, noDefault bool, configPath ...string) error {
	setting, err := NewSetting(configPath...)
	if err != nil {
		return err
	}

	features = setting.FeaturesFrom("Features")
	if len(suite) > 0 {
		if err = features.Use(suite, noDefault); err != nil {
			return err
		}
	}

	objects := map[string]interface{}{
		"App":           &AppSetting,
		"Server":        &ServerSetting,
		"CombinedFeed":  &CombinedFeedSetting,
		"FeedSearch":    &FeedSearchSetting,
		"BigCacheIndex": &BigCacheIndexSetting,
		"Logger":        &loggerSetting,
		"LoggerFile":    &loggerFileSetting,
		"Redis":         &redisSetting,
		"MongoDB":       &MongoDBSetting,
		"Meili":         &MeiliSetting,
	}
	for k, v := range objects {
		err = setting.ReadSection(k, v)
		if err != nil {
			return err
		}
	}

	return nil
}

func Initial(suite []string, noDefault bool, configPath ...string) {
	err := setupSetting(suite, noDefault, configPath...)
	if err != nil {
		log.Fatalf("init.setupSetting err: %v", err)
	}

	setupLogger()
	setupDBEngine()
}

func CheckSetting(i interface{}, keys ...string) {
	rv := reflect.ValueOf(i)

	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	for _, key := range keys {
		f := rv.FieldByNameFunc(func(s string) bool {
			return strings.ToLower(s) == key
		})
		if f.IsZero() {
			log.Fatalf("%s.%s must be filled", rv.Type().Name(), key)
		}
	}
}

// Cfg get value by key if exist
func Cfg(key string) (string, bool) {
	return features.Cfg(key)
}

// CfgIf check expression is true. if expression just have a string like
func CfgIf(expression string) bool {
	return features.CfgIf(expression)
}
