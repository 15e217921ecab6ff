package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/peawormsworth/Finance-BitPay-API/pkg/bitpay"
	"github.com/peawormsworth/Finance-BitPay-API/pkg/config"
	"github.com/peawormsworth/Finance-BitPay-API/pkg/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type WarningResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func makeLogger(isDebug bool) *zap.SugaredLogger {
	if !isDebug {
		return zap.NewNop().Sugar()
	}

	l, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	return l.Sugar()
}

// loadConfig finds and loads the configuration, creating a fresh one with an
// empty default environment when none exists yet.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configFilePath := c.String("config-file")
	if configFilePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to find the current directory")
		}

		configFilePath, err = config.LocateConfig(fs, cwd)
		if err != nil {
			return nil, errors.Wrap(err, "failed to locate the configuration file")
		}
	}

	cm, err := config.LoadOrCreate(fs, configFilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load the config file at '%s'", configFilePath)
	}

	return cm, nil
}

func clientFromEnvironment(env *config.Environment, log logger.Logger) (*bitpay.Client, error) {
	return bitpay.NewClient(bitpay.Config{
		APIKey:  env.APIKey,
		BaseURL: env.BaseURL,
		Timeout: env.Timeout(),
		Logger:  log,
	})
}

func switchEnvironment(env string, force bool, cm *config.Config, stdin io.ReadCloser) error {
	if env == "" {
		return nil
	}

	err := cm.SelectEnvironment(env)
	if err != nil {
		errorPrinter.Printf("Failed to use the environment '%s': %v\n", env, err)
		return cli.Exit("", 1)
	}

	// if env name is similar to "prod" ask for confirmation
	if !force && strings.Contains(strings.ToLower(env), "prod") {
		prompt := promptui.Prompt{
			Label:     "You are using a production environment. Are you sure you want to continue?",
			IsConfirm: true,
			Stdin:     stdin,
		}

		_, err := prompt.Run()
		if err != nil {
			fmt.Printf("The operation is cancelled.\n")
			return cli.Exit("", 1)
		}
	}

	return nil
}

func RecoverFromPanic() {
	if err := recover(); err != nil {
		log.Println("=======================================")
		log.Println("The CLI encountered an unexpected error, please report the issue.")
		log.Println(err)
		log.Println("=======================================")
		b := bufio.NewScanner(bytes.NewBuffer(debug.Stack()))
		for b.Scan() {
			log.Println(b.Text())
		}
		os.Exit(1)
	}
}

func printErrorJSON(err error) {
	errResponse := ErrorResponse{
		Error: errors.New("something went wrong").Error(),
	}
	if err != nil {
		errResponse.Error = err.Error()
	}

	js, err := json.Marshal(errResponse)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(js))
}

func printError(err error, output string, message string) {
	if output == "json" {
		printErrorJSON(err)
	} else {
		errorPrinter.Printf("%s: %v\n", message, err)
	}
}

func printSuccessForOutput(output string, message string) {
	if output == "json" {
		successResponse := SuccessResponse{
			Status:  "success",
			Message: message,
		}
		jsonData, err := json.Marshal(successResponse)
		if err != nil {
			fmt.Println("Error:", err.Error())
			return
		}
		fmt.Println(string(jsonData))
	} else {
		successPrinter.Printf("%s\n", message)
	}
}

func printWarningForOutput(output string, message string) {
	if output == "json" {
		warningResponse := WarningResponse{
			Status:  "warning",
			Message: message,
		}
		jsonData, err := json.Marshal(warningResponse)
		if err != nil {
			fmt.Println("Error:", err.Error())
			return
		}
		fmt.Println(string(jsonData))
	} else {
		warningPrinter.Printf("%s\n", message)
	}
}
