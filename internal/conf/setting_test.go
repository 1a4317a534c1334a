package conf

import (
	"testing"
)

func TestUseDefault(t *testing.T) {
	suites := map[string][]string{
		"default": {"Search", "Meili", "Mongo", "Redis", "BigCacheIndex", "LoggerFile"},
		"develop": {"Search", "Meili", "Mongo", "LoggerStd"},
		"slim":    {"Search", "Meili", "Mongo", "Redis", "LoggerStd"},
	}
	kv := map[string]string{
		"search": "Meili",
	}
	features := newFeatures(suites, kv)
	for _, data := range []struct {
		key    string
		expect string
		exist  bool
	}{
		{"Search", "Meili", true},
		{"Meili", "", true},
		{"Redis", "", true},
		{"BigCacheIndex", "", true},
		{"LoggerStd", "", false},
	} {
		if v, ok := features.Cfg(data.key); ok != data.exist || v != data.expect {
			t.Errorf("key: %s expect: %s exist: %t got v: %s ok: %t", data.key, data.expect, data.exist, v, ok)
		}
	}
	for exp, res := range map[string]bool{
		"Search":         true,
		"Search = Meili": true,
		"Meili":          true,
		"default":        true,
		"develop":        false,
	} {
		if ok := features.CfgIf(exp); res != ok {
			t.Errorf("CfgIf(%s) want %t got %t", exp, res, ok)
		}
	}
}

func TestUse(t *testing.T) {
	suites := map[string][]string{
		"default": {"Search", "Meili", "Mongo", "Redis", "BigCacheIndex", "LoggerFile"},
		"develop": {"Search", "Meili", "Mongo", "LoggerStd"},
		"slim":    {"Search", "Meili", "Mongo", "Redis", "LoggerStd"},
	}
	kv := map[string]string{
		"search": "Meili",
	}
	features := newFeatures(suites, kv)

	features.Use([]string{"develop"}, true)
	for _, data := range []struct {
		key    string
		expect string
		exist  bool
	}{
		{"Meili", "", true},
		{"LoggerStd", "", true},
		{"Redis", "", false},
		{"BigCacheIndex", "", false},
	} {
		if v, ok := features.Cfg(data.key); ok != data.exist || v != data.expect {
			t.Errorf("key: %s expect: %s exist: %t got v: %s ok: %t", data.key, data.expect, data.exist, v, ok)
		}
	}
	for exp, res := range map[string]bool{
		"default": false,
		"develop": true,
	} {
		if ok := features.CfgIf(exp); res != ok {
			t.Errorf("CfgIf(%s) want %t got %t", exp, res, ok)
		}
	}

	features.UseDefault()
	features.Use([]string{"slim", "", "demo"}, false)
	for _, data := range []struct {
		key    string
		expect string
		exist  bool
	}{
		{"Redis", "", true},
		{"BigCacheIndex", "", true},
		{"LoggerStd", "", true},
		{"demo", "", true},
	} {
		if v, ok := features.Cfg(data.key); ok != data.exist || v != data.expect {
			t.Errorf("key: %s expect: %s exist: %t got v: %s ok: %t", data.key, data.expect, data.exist, v, ok)
		}
	}
	for exp, res := range map[string]bool{
		"default": true,
		"develop": false,
		"slim":    true,
		"demo":    true,
	} {
		if ok := features.CfgIf(exp); res != ok {
			t.Errorf("CfgIf(%s) want %t got %t", exp, res, ok)
		}
	}
}
