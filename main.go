package main

import (
	"flag"
	"net/http"
	"strings"
	"time"

	"wavefeed-backend/internal/conf"
	"wavefeed-backend/internal/routers"
	"wavefeed-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	noDefaultFeatures bool
	features          suites
	configPath        string
)

type suites []string

func (s *suites) String() string {
	return strings.Join(*s, ",")
}

func (s *suites) Set(value string) error {
	for _, item := range strings.Split(value, ",") {
		*s = append(*s, strings.TrimSpace(item))
	}
	return nil
}

func init() {
	flag.BoolVar(&noDefaultFeatures, "no-default-features", false, "whether use default features")
	flag.Var(&features, "features", "use special features")
	flag.StringVar(&configPath, "config", "", "config file path")
	flag.Parse()

	conf.Initial(features, noDefaultFeatures, configPath)
	conf.CheckSetting(conf.MongoDBSetting, "host", "dbname")
	conf.CheckSetting(conf.MeiliSetting, "host", "index")
	service.Initialize()
}

func main() {
	gin.SetMode(conf.ServerSetting.RunMode)

	router := routers.NewRouter()
	s := &http.Server{
		Addr:           conf.ServerSetting.HttpIp + ":" + conf.ServerSetting.HttpPort,
		Handler:        router,
		ReadTimeout:    conf.ServerSetting.ReadTimeout * time.Second,
		WriteTimeout:   conf.ServerSetting.WriteTimeout * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	logrus.Infof("wavefeed service listen on %s", s.Addr)
	if err := s.ListenAndServe(); err != nil {
		logrus.Fatalf("run app failed: %s", err)
	}
}
