package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"nekocmd/pkg/config"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage nekocmd as a system service",
	Long: `Install and control nekocmd as a system service.

The service runs "nekocmd run" under the system service manager:
- Linux: systemd
- macOS: launchd
- Windows: Windows Service Manager

Requires administrator/root privileges.`,
}

func init() {
	serviceCmd.AddCommand(
		serviceAction("install", "Install nekocmd as a system service", InstallService),
		serviceAction("uninstall", "Uninstall the nekocmd service", UninstallService),
		serviceAction("start", "Start the nekocmd service", StartService),
		serviceAction("stop", "Stop the nekocmd service", StopService),
		serviceAction("status", "Check the nekocmd service status", StatusService),
	)
}

func serviceAction(use, short string, action func() error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := action(); err != nil {
				return fmt.Errorf("%w\n\nNote: managing system services requires administrator privileges", err)
			}
			return nil
		},
	}
}

// BotService implements service.Interface for the bot.
type BotService struct {
	app    *fx.App
	logger service.Logger
}

// NewBotService creates a new bot service.
func NewBotService() *BotService {
	return &BotService{}
}

// Start implements service.Interface.Start. It must not block.
func (s *BotService) Start(svc service.Service) error {
	if s.logger != nil {
		_ = s.logger.Info("Starting nekocmd service")
	}

	s.app = fx.New(
		appModules(),
		fx.Invoke(logStartup),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.app.Start(ctx)
}

// Stop implements service.Interface.Stop.
func (s *BotService) Stop(svc service.Service) error {
	if s.logger != nil {
		_ = s.logger.Info("Stopping nekocmd service")
	}
	if s.app == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.app.Stop(ctx); err != nil {
		if s.logger != nil {
			_ = s.logger.Errorf("Error stopping service: %v", err)
		}
		return err
	}
	return nil
}

// ServiceConfig returns the service configuration.
func ServiceConfig() *service.Config {
	return &service.Config{
		Name:        "nekocmd",
		DisplayName: "nekocmd",
		Description: "Multi-channel chat command bot",
		Arguments:   serviceArguments(),
	}
}

func serviceArguments() []string {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(config.ConfigPathEnv))
	}
	if path == "" {
		return []string{"run"}
	}
	return []string{"-c", path, "run"}
}

func newService() (service.Service, *BotService, error) {
	prg := NewBotService()
	s, err := service.New(prg, ServiceConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("creating service: %w", err)
	}
	return s, prg, nil
}

// isServiceInvocation reports whether a service manager started the process.
func isServiceInvocation() bool {
	return !service.Interactive()
}

// InstallService installs nekocmd as a system service.
func InstallService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}
	if err := s.Install(); err != nil {
		return fmt.Errorf("installing service: %w", err)
	}

	fmt.Println("Service installed successfully!")
	fmt.Println("Use 'nekocmd service start' to start the service")
	return nil
}

// UninstallService removes the system service.
func UninstallService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}
	if err := s.Uninstall(); err != nil {
		return fmt.Errorf("uninstalling service: %w", err)
	}

	fmt.Println("Service uninstalled successfully!")
	return nil
}

// StartService starts the installed service.
func StartService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		return fmt.Errorf("starting service: %w", err)
	}

	fmt.Println("Service started successfully!")
	return nil
}

// StopService stops the running service.
func StopService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}
	if err := s.Stop(); err != nil {
		return fmt.Errorf("stopping service: %w", err)
	}

	fmt.Println("Service stopped successfully!")
	return nil
}

// StatusService prints the service status.
func StatusService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}

	status, err := s.Status()
	if err != nil {
		return fmt.Errorf("getting service status: %w", err)
	}

	statusStr := "Unknown"
	switch status {
	case service.StatusRunning:
		statusStr = "Running"
	case service.StatusStopped:
		statusStr = "Stopped"
	}

	fmt.Printf("Service Status: %s\n", statusStr)
	return nil
}

// RunService runs under the service manager until it is told to stop.
func RunService() error {
	s, prg, err := newService()
	if err != nil {
		return err
	}

	logger, err := s.Logger(nil)
	if err != nil {
		return fmt.Errorf("creating service logger: %w", err)
	}
	prg.logger = logger

	if err := s.Run(); err != nil {
		_ = logger.Error(err)
		return err
	}
	return nil
}
