package app

import (
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/shinkiyuusei/MahjongExpertSystem/config"
	"github.com/shinkiyuusei/MahjongExpertSystem/engine"
	"github.com/shinkiyuusei/MahjongExpertSystem/gui"
	"github.com/shinkiyuusei/MahjongExpertSystem/log"
)

// Run 组装引擎并进入图形界面主循环，窗口关闭后返回
func Run() error {
	store := engine.NewStore(config.ExpertConfig.WeightsConf.Path)
	expert := engine.NewExpert(store)

	fyneApp := fyneapp.New()
	window := gui.NewExpertWindow(fyneApp, expert)
	window.Show()
	fyneApp.Run()

	log.Info("窗口已关闭，服务停止")
	return nil
}
