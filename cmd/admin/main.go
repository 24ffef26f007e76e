package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"phPortfolio/internal/auth"
	"phPortfolio/internal/config"
	"phPortfolio/internal/content"
	"phPortfolio/internal/database"
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Portfolio maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// createAdminCmd 创建唯一的后台管理员账号
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin account",
	Long: `Create the admin account used to sign in to /admin.

Database settings are read from the same environment variables as the API
(DATABASE_DRIVER, DATABASE_URL, POSTGRES_DB, ...). Flags default to ADMIN_EMAIL,
ADMIN_PASSWORD and ADMIN_NAME. Without any password a random one is generated
and printed once.`,
	RunE: runCreateAdmin,
}

// seedCmd 写入初始内容，已有数据时不做任何修改
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed portfolio content",
	RunE:  runSeed,
}

var (
	adminEmail    string
	adminPassword string
	adminName     string
	seedFile      string
)

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "管理员邮箱（默认读 ADMIN_EMAIL）")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "管理员密码（默认读 ADMIN_PASSWORD，均为空时随机生成）")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "显示名称（默认读 ADMIN_NAME）")

	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML 种子文件（可选，默认使用内置内容或 SEED_FILE）")

	rootCmd.AddCommand(createAdminCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.InitDatabase(cfg.Database, false)
	if err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("auto migrate: %w", err)
	}
	return cfg, db, nil
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}

	email := firstNonEmpty(adminEmail, cfg.Admin.Email)
	if email == "" {
		return errors.New("missing admin email: pass --email or set ADMIN_EMAIL")
	}
	name := firstNonEmpty(adminName, cfg.Admin.Name, "Admin")

	password := firstNonEmpty(adminPassword, cfg.Admin.Password)
	generated := password == ""
	if generated {
		p, err := generateRandomPassword(18)
		if err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
		password = p
	}

	authService, err := auth.NewAuthService(db, secretOrPlaceholder(cfg.Auth.Secret), cfg.Auth.SessionTTL)
	if err != nil {
		return err
	}

	created, err := authService.EnsureAdmin(cmd.Context(), name, email, password)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	out := cmd.OutOrStdout()
	if !created {
		fmt.Fprintf(out, "管理员账号已存在：%s（未做修改）\n", email)
		return nil
	}
	fmt.Fprintf(out, "已创建管理员账号：%s\n", email)
	if generated {
		fmt.Fprintf(out, "初始密码: %s\n", password)
		fmt.Fprintln(out, "提示：该密码仅显示一次。")
	}
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}

	path := seedFile
	if path == "" {
		path = cfg.Init.SeedFile
	}
	seed, err := content.LoadSeed(path)
	if err != nil {
		return err
	}

	res, err := content.NewStore(db).Seed(cmd.Context(), seed)
	if err != nil {
		return fmt.Errorf("seed content: %w", err)
	}

	out := cmd.OutOrStdout()
	if res.AlreadySeeded {
		fmt.Fprintln(out, "Database already initialized")
		return nil
	}
	fmt.Fprintf(out, "Inserted %d records (%s)\n", res.Inserted, strings.Join(res.Sections, ", "))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// create-admin 不签发令牌，AUTH_SECRET 可以缺省
func secretOrPlaceholder(secret string) string {
	if strings.TrimSpace(secret) == "" {
		return "unused"
	}
	return secret
}

func generateRandomPassword(bytesLen int) (string, error) {
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
