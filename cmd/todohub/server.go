package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/todohub/todohub/internal/config"
)

const pidFileName = "todohub.pid"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage the todohub server",
	Long:  `Commands for starting, stopping, and checking the status of the todohub server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the todohub server",
	Long:  `Start the todohub server as a background process.`,
	Run: func(cmd *cobra.Command, args []string) {
		bind, _ := cmd.Flags().GetString("bind")

		if err := runServerStart(bind); err != nil {
			handleError(err)
		}
	},
}

var serverStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the todohub server",
	Long:  `Stop the running todohub server.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServerStop(); err != nil {
			handleError(err)
		}
	},
}

var serverStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check todohub server status",
	Long:  `Check if the todohub server is running.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServerStatus(); err != nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverStopCmd)
	serverCmd.AddCommand(serverStatusCmd)

	serverStartCmd.Flags().String("bind", "", "Address to bind the server to (host:port)")
}

// runServerStart starts the todohub server in the background
func runServerStart(bind string) error {
	pidPath, err := pidFilePath()
	if err != nil {
		return err
	}

	// Check if already running
	if pid, err := readPIDFile(pidPath); err == nil && isProcessRunning(pid) {
		return fmt.Errorf("server is already running (PID: %d)", pid)
	}

	binPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve todohub binary: %w", err)
	}

	cmd := exec.Command(binPath, "serve")
	if bind != "" {
		cmd.Env = append(os.Environ(), fmt.Sprintf("TODOHUB_BIND=%s", bind))
	}
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // Create new session to detach from terminal
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if err := writePIDFile(pidPath, cmd.Process.Pid); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	fmt.Printf("Server started (PID: %d)\n", cmd.Process.Pid)
	return nil
}

// runServerStop stops the todohub server
func runServerStop() error {
	pidPath, err := pidFilePath()
	if err != nil {
		return err
	}

	pid, err := readPIDFile(pidPath)
	if err != nil {
		return fmt.Errorf("server is not running (no PID file found)")
	}

	if !isProcessRunning(pid) {
		removePIDFile(pidPath)
		return fmt.Errorf("server is not running (stale PID file)")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	removePIDFile(pidPath)

	fmt.Printf("Server stopped (PID: %d)\n", pid)
	return nil
}

// runServerStatus checks if the server is running
func runServerStatus() error {
	pidPath, err := pidFilePath()
	if err != nil {
		return err
	}

	pid, err := readPIDFile(pidPath)
	if err != nil {
		fmt.Println("Server is not running")
		os.Exit(ExitServerNotRunning)
		return nil
	}

	if !isProcessRunning(pid) {
		removePIDFile(pidPath)
		fmt.Println("Server is not running (stale PID file removed)")
		os.Exit(ExitServerNotRunning)
		return nil
	}

	fmt.Printf("Server is running (PID: %d)\n", pid)
	return nil
}

// pidFilePath returns the path of the PID file inside ~/.todohub
func pidFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, config.ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create todohub directory: %w", err)
	}

	return filepath.Join(dir, pidFileName), nil
}

// writePIDFile writes the process ID to a file
func writePIDFile(path string, pid int) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

// readPIDFile reads the process ID from a file
func readPIDFile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file content: %w", err)
	}

	return pid, nil
}

// removePIDFile removes the PID file
func removePIDFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// isProcessRunning checks if a process is running
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds, so a zero signal probe is needed
	err = process.Signal(syscall.Signal(0))
	return err == nil
}
