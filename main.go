package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/solo-blog/console/config"
	"github.com/solo-blog/console/database"
	"github.com/solo-blog/console/database/model"
	"github.com/solo-blog/console/logger"
	"github.com/solo-blog/console/util/pagination"
	"github.com/solo-blog/console/web"
	"github.com/solo-blog/console/web/service"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	level, err := logger.ParseLevel(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
	defer logger.CloseLogger()

	if err := database.InitDB(config.GetDatabaseConfig()); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	server := web.NewServer()
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func openDB() bool {
	if err := database.InitDB(config.GetDatabaseConfig()); err != nil {
		fmt.Println(err)
		return false
	}
	return true
}

func resetSetting() {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	preferenceService := service.NewPreferenceQueryService(database.GetDB())
	if err := preferenceService.ResetPreference(); err != nil {
		fmt.Println("reset setting failed:", err)
	} else {
		fmt.Println("reset setting success")
	}
}

func showSetting() {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	db := database.GetDB()
	pref, err := service.NewPreferenceQueryService(db).GetPreference()
	if err != nil {
		fmt.Println("get preference failed, error info:", err)
		return
	}
	admin, err := service.NewUserQueryService(db).GetAdmin()
	if err != nil {
		fmt.Println("get admin failed, error info:", err)
		return
	}

	fmt.Println("current console settings as follows:")
	if admin != nil {
		fmt.Println("admin name:", admin.UserName)
		fmt.Println("admin email:", admin.UserEmail)
	} else {
		fmt.Println("no admin account")
	}
	fmt.Println("port:", config.GetPort())
	fmt.Println("blog title:", pref.BlogTitle)
	fmt.Println("serve path:", pref.ServePath)
	fmt.Println("allow register:", pref.AllowRegister)
}

func updateSetting(email string, password string, allowRegister *bool) {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	db := database.GetDB()
	preferenceService := service.NewPreferenceQueryService(db)
	if email != "" || password != "" {
		userMgmtService := service.NewUserMgmtService(db, preferenceService)
		if err := userMgmtService.UpdateAdmin(email, password); err != nil {
			fmt.Println("set admin email and password failed:", err)
		} else {
			fmt.Println("set admin email and password success")
		}
	}
	if allowRegister != nil {
		if err := preferenceService.SetAllowRegister(*allowRegister); err != nil {
			fmt.Println("set allow register failed:", err)
		} else {
			fmt.Printf("set allow register %v success\n", *allowRegister)
		}
	}
}

func listUsers(page, size int) {
	if !openDB() {
		return
	}
	defer database.CloseDB()

	req := pagination.ParseRequest(fmt.Sprintf("%d/%d", page, size))
	result, err := service.NewUserQueryService(database.GetDB()).GetUsers(req)
	if err != nil {
		fmt.Println("list users failed:", err)
		return
	}
	out := struct {
		Users      []model.User      `json:"users"`
		Pagination pagination.Result `json:"pagination"`
	}{result.Users, result.Pagination}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(data))
}

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		log.Println("load .env failed:", err)
	}

	var rootCmd = &cobra.Command{
		Use:     config.GetName(),
		Version: config.GetVersion(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Set settings",
	}

	var resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset the blog preference to defaults",
		Run: func(cmd *cobra.Command, args []string) {
			resetSetting()
		},
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	var updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Update settings",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			var allowRegister *bool
			if cmd.Flags().Changed("allowRegister") {
				allow, _ := cmd.Flags().GetBool("allowRegister")
				allowRegister = &allow
			}
			updateSetting(email, password, allowRegister)
		},
	}

	updateCmd.Flags().String("email", "", "set admin login email")
	updateCmd.Flags().String("password", "", "set admin login password")
	updateCmd.Flags().Bool("allowRegister", false, "allow visitors to register")

	settingCmd.AddCommand(resetCmd, showCmd, updateCmd)

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Inspect blog users",
	}

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "Print one page of users as JSON",
		Run: func(cmd *cobra.Command, args []string) {
			page, _ := cmd.Flags().GetInt("page")
			size, _ := cmd.Flags().GetInt("size")
			listUsers(page, size)
		},
	}

	listCmd.Flags().Int("page", 1, "page number")
	listCmd.Flags().Int("size", pagination.DefaultPageSize, "users per page")

	userCmd.AddCommand(listCmd)

	rootCmd.AddCommand(runCmd, settingCmd, userCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
