package cmds

import (
	"gdtv/internal/app/config"
	"gdtv/internal/pkg/logging"
	"gdtv/internal/pkg/util"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	cfgFile string

	conf *config.Config
)

func init() {
	cobra.OnInitialize(initConfig)
}

func NewRootCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gdtv",
		Short:         "广东IPTV直播源及节目单生成工具",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(NewGenerateCLI())
	rootCmd.AddCommand(NewServeCLI())
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML配置文件的路径")

	return rootCmd
}

// initConfig 初始化配置文件和日志
func initConfig() {
	var err error
	var fPath string

	if cfgFile != "" {
		// 使用命令参数中的配置文件
		fPath = cfgFile
	} else {
		cfgHome, err := util.GetCurrentAbPathByExecutable()
		cobra.CheckErr(err)

		fPath = filepath.Join(cfgHome, "config.yml")

		// 写入缺省配置文件
		if _, err = os.Stat(fPath); os.IsNotExist(err) {
			err = config.CreateDefaultCfg(fPath)
			cobra.CheckErr(err)
		}
	}

	// 读取配置文件
	conf, err = config.Load(fPath)
	cobra.CheckErr(err)

	// 初始化日志
	logging.InitLogger(&conf.Log)
}
