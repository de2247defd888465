package functional_test

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/RakshakAI/ScamShield/pkg/config"
	"github.com/RakshakAI/ScamShield/pkg/infra/auth/jwt"
	"github.com/joho/godotenv"
)

var (
	GlobalConfig *config.Config
	engineCmd    *exec.Cmd
	EngineUrl    = getEnv("ENGINE_URL", "")
	AdminToken   = getEnv("ADMIN_TOKEN", "")
)

func TestMain(m *testing.M) {

	fmt.Println("🔨 Creating Test Environment...")
	setupTestEnvironment()
	code := m.Run()
	teardownTestEnvironment()
	os.Exit(code)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func setupTestEnvironment() {

	err := godotenv.Load("../../.env.functional")
	if err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	if err := config.Load("../../config/"); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	GlobalConfig = config.GetConfig()

	killProcessesOnPorts([]int{8080, 9090})

	EngineUrl = getEnv("ENGINE_URL", "http://localhost:8080")

	jwtManager := jwt.NewJwtManager(&GlobalConfig.Server)
	tkn, err := jwtManager.CreateToken()
	if err != nil {
		log.Fatalf("failed to create token: %v", err)
	}
	AdminToken = tkn

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Failed to get working directory: %v", err)
	}
	// The engine resolves ./config and ./docs against its working directory,
	// so the child process runs from the repository root.
	rootDir, err := filepath.Abs(filepath.Join(wd, "..", ".."))
	if err != nil {
		log.Fatalf("Failed to resolve repository root: %v", err)
	}
	fmt.Printf("📁 Repository root: %s\n", rootDir)

	engineCmd = exec.Command("go", "run", "./cmd/engine")
	engineCmd.Dir = rootDir
	engineCmd.Env = append(os.Environ(), "ENV_FILE=.env.functional")
	engineCmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	engineStdout, err := engineCmd.StdoutPipe()
	if err != nil {
		log.Fatalf("Failed to create engine stdout pipe: %v", err)
	}
	engineStderr, err := engineCmd.StderrPipe()
	if err != nil {
		log.Fatalf("Failed to create engine stderr pipe: %v", err)
	}

	go func() {
		scanner := bufio.NewScanner(engineStdout)
		for scanner.Scan() {
			fmt.Printf("[ENGINE STDOUT] %s\n", scanner.Text())
		}
	}()
	go func() {
		scanner := bufio.NewScanner(engineStderr)
		for scanner.Scan() {
			fmt.Printf("[ENGINE STDERR] %s\n", scanner.Text())
		}
	}()

	fmt.Println("✨ Starting Engine:", engineCmd.String())
	if err := engineCmd.Start(); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}
	fmt.Printf("   Engine started with PID: %d\n", engineCmd.Process.Pid)

	waitForServerReady(EngineUrl+"/health", "engine")

	fmt.Println("🚀 Test Environment Ready")
}

func waitForServerReady(url, serverName string) {
	maxRetries := 60
	retryInterval := time.Second

	for i := 0; i < maxRetries; i++ {
		resp, err := http.Get(url) //nolint:gosec // URL is controlled in test environment
		if err == nil && resp.StatusCode < 500 {
			_ = resp.Body.Close()
			fmt.Printf("✅ %s is ready\n", serverName)
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		if i == maxRetries-1 {
			log.Fatalf("❌ %s failed to become ready after %d seconds. Last error: %v", serverName, maxRetries, err)
		}

		fmt.Printf("⏳ Waiting for %s to be ready... (attempt %d/%d)\n", serverName, i+1, maxRetries)
		time.Sleep(retryInterval)
	}
}

func teardownTestEnvironment() {
	if engineCmd != nil && engineCmd.Process != nil {
		err := syscall.Kill(-engineCmd.Process.Pid, syscall.SIGKILL)
		if err != nil {
			log.Printf("error killing engine: %v", err)
		}
	}
	fmt.Printf("🗑 Engine Stopped\n")
}

func killProcessesOnPorts(ports []int) {
	for _, port := range ports {
		cmd := exec.Command("lsof", "-ti", fmt.Sprintf(":%d", port)) //nolint:gosec // port is controlled from hardcoded list
		output, err := cmd.Output()
		if err != nil {
			continue
		}

		pidLines := strings.TrimSpace(string(output))
		if pidLines == "" {
			continue
		}

		pids := strings.Split(pidLines, "\n")
		for _, pidStr := range pids {
			pidStr = strings.TrimSpace(pidStr)
			if pidStr == "" {
				continue
			}

			pid, err := strconv.Atoi(pidStr)
			if err != nil {
				log.Printf("invalid PID: %s", pidStr)
				continue
			}

			fmt.Printf("🔪 Killing process %d on port %d\n", pid, port)
			process, err := os.FindProcess(pid)
			if err != nil {
				log.Printf("failed to find process %d: %v", pid, err)
				continue
			}

			if err := process.Kill(); err != nil {
				log.Printf("failed to kill process %d: %v", pid, err)
			}
		}
	}
}
