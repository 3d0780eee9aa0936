package config

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/shinkiyuusei/MahjongExpertSystem/log"
)

// ExpertConfig 全局配置，Load 之后可用
var ExpertConfig ExpertConfiguration

type BaseConfig struct {
	ID         string `mapstructure:"id"`
	MetricPort int    `mapstructure:"metricPort"`
}

type ExpertConfiguration struct {
	BaseConfig   `mapstructure:",squash"`
	LogConf      `mapstructure:"log"`
	WeightsConf  `mapstructure:"weights"`
	TrainingConf `mapstructure:"training"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

type WeightsConf struct {
	Path string `mapstructure:"path"`
}

type TrainingConf struct {
	DataPath string `mapstructure:"dataPath"`
}

// defaultConfiguration 桌面工具不强制要求配置文件，缺省值要能直接跑起来
func defaultConfiguration() ExpertConfiguration {
	return ExpertConfiguration{
		BaseConfig: BaseConfig{
			ID:         "expert",
			MetricPort: 0, // 0 表示不开监控端口
		},
		LogConf:      LogConf{Level: "info"},
		WeightsConf:  WeightsConf{Path: "mahjong_weights.json"},
		TrainingConf: TrainingConf{DataPath: "training_data.json"},
	}
}

// Load 读取配置文件并覆盖到缺省配置上
// 读取失败时 ExpertConfig 保持缺省值可用，错误交给调用方决定是否致命
func Load(configFile string) error {
	cfg := defaultConfiguration()

	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		ExpertConfig = cfg
		return err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		ExpertConfig = defaultConfiguration()
		return err
	}

	ExpertConfig = cfg
	return nil
}

// Watch 监听配置文件变更并热重载
func Watch(configFile string) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.WatchConfig()
	v.OnConfigChange(func(in fsnotify.Event) {
		log.Info("配置文件变更: %s", in.Name)
		if err := Load(configFile); err != nil {
			log.Error("配置重载失败: %v", err)
		}
	})
}
