package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinkiyuusei/MahjongExpertSystem/app"
	"github.com/shinkiyuusei/MahjongExpertSystem/config"
	"github.com/shinkiyuusei/MahjongExpertSystem/console"
	"github.com/shinkiyuusei/MahjongExpertSystem/engine"
	"github.com/shinkiyuusei/MahjongExpertSystem/log"
	"github.com/shinkiyuusei/MahjongExpertSystem/metrics"
	"github.com/shinkiyuusei/MahjongExpertSystem/trainer"
)

var configFile string
var dataFile string

var rootCmd = &cobra.Command{
	Use:   "expert",
	Short: "麻将出牌策略系统",
	Long:  `麻将出牌策略系统：输入局面推荐弃牌，按胜负结果自学习权重`,
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap()
		if err := app.Run(); err != nil {
			log.Error("发生异常: %v", err)
			os.Exit(-1)
		}
	},
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "批量回放训练数据更新权重",
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap()
		store := engine.NewStore(config.ExpertConfig.WeightsConf.Path)
		expert := engine.NewExpert(store)

		path := dataFile
		if path == "" {
			path = config.ExpertConfig.TrainingConf.DataPath
		}
		applied, err := trainer.NewTrainer(expert).TrainFile(path)
		if err != nil {
			log.Error("训练失败（已回放 %d 轮）: %v", applied, err)
			os.Exit(-1)
		}
	},
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "交互式推演模式",
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap()
		store := engine.NewStore(config.ExpertConfig.WeightsConf.Path)
		console.Run(engine.NewExpert(store))
	},
}

// bootstrap 配置、日志、监控，三种运行模式共用
// 桌面工具没有配置文件也要能跑，读取失败时退回内置缺省配置
func bootstrap() {
	if err := config.Load(configFile); err != nil {
		log.Warn("配置文件不可用，使用默认配置: %v", err)
	} else {
		config.Watch(configFile)
	}
	log.InitLog(config.ExpertConfig.ID, config.ExpertConfig.LogConf.Level)
	log.Info(fmt.Sprintf("配置文件: %+v", config.ExpertConfig))

	if port := config.ExpertConfig.MetricPort; port > 0 {
		go func() {
			log.Info("启动监控..., URL: http://localhost:" + fmt.Sprintf("%d", port) + "/debug/statsviz/")
			err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", port))
			if err != nil {
				panic(err)
			}
		}()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "configFile", "expert.yml", "resource file")
	trainCmd.Flags().StringVar(&dataFile, "dataFile", "", "training data file")
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(consoleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %#v", err)
		os.Exit(1)
	}
}
