package main

import (
	"fmt"
	"log"
	"os"

	api "voltrix/cmd/voltrix"
	"voltrix/conf"
	"voltrix/internal/middleware"
	"voltrix/pkg/cache"
	"voltrix/pkg/db"
	"voltrix/pkg/idgen"
	"voltrix/pkg/kafka"
	"voltrix/pkg/logger"
)

func main() {

	// 加载配置文件
	err := conf.LoadConfig("conf/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appCfg := conf.AppConfig
	logger.InitLogger(&appCfg.Log, appCfg.AppName)

	idgen.Init(appCfg.Venue.SnowflakeNode)

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	if dbUser == "" || dbPass == "" || dbHost == "" {
		dbUser = conf.AppConfig.Username
		dbPass = conf.AppConfig.Db.Password
		dbHost = conf.AppConfig.Host
		dbPort = conf.AppConfig.Port
		dbName = conf.AppConfig.DbName
	}

	// 初始化数据库
	dbCfg := db.NewConfig(dbUser, dbPass, dbHost, dbPort, dbName)
	dbCfg.LockWaitTimeout = conf.AppConfig.Db.LockWaitTimeout
	datasource := db.Init(dbCfg)

	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisAddr := fmt.Sprintf("%s:%s", redisHost, redisPort)
	if redisHost == "" || redisPort == "" {
		redisAddr = conf.AppConfig.Redis.Addr
	}
	if redisPassword != "" {
		appCfg.Redis.Password = redisPassword
	}
	appCfg.Redis.Addr = redisAddr

	// 初始化redis缓存
	cache.InitRedis(appCfg.Redis)

	producer := kafka.NewKafkaProducer(appCfg.Kafka.Broker)
	consumer := kafka.NewKafkaConsumer(appCfg.Kafka.Broker)

	// 创建并启动服务
	srv := api.NewServer(&appCfg)
	srvRouter, cleanup := api.InitRouter(datasource, producer, consumer)
	srv.RegisterOnShutdown(func() {
		cleanup()

		producer.Close()
		consumer.Close()

		if datasource != nil {
			// 关闭主库链接
			m, err := datasource.DB()
			if err == nil {
				_ = m.Close()
			}
		}

		cache.CloseRedis()
		_ = logger.Sync()
	})

	srv.Run(middleware.NewMiddleware(), srvRouter)
}
