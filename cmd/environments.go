package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/peawormsworth/Finance-BitPay-API/pkg/config"
	"github.com/peawormsworth/Finance-BitPay-API/pkg/telemetry"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

func Environments(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "environments",
		Usage: "manage environments defined in .bitpay.yml",
		Subcommands: []*cli.Command{
			ListEnvironments(isDebug),
			CreateEnvironment(isDebug),
			DeleteEnvironment(isDebug),
		},
		Before: telemetry.BeforeCommand,
		After:  telemetry.AfterCommand,
	}
}

func ListEnvironments(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list the environments found in the configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "the output type, possible values are: plain, json",
			},
			&cli.StringFlag{
				Name:  "config-file",
				Usage: "the path to the .bitpay.yml file",
			},
		},
		Action: func(c *cli.Context) error {
			r := EnvironmentListCommand{}

			configFilePath, err := resolveConfigFilePath(c, *isDebug)
			if err != nil {
				return err
			}

			return r.Run(strings.ToLower(c.String("output")), configFilePath)
		},
	}
}

func CreateEnvironment(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "add a new environment to the configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "the name of the environment to create",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "the merchant API key for the new environment",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "the gateway endpoint for the new environment, defaults to production",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "the output type, possible values are: plain, json",
			},
			&cli.StringFlag{
				Name:  "config-file",
				Usage: "the path to the .bitpay.yml file",
			},
		},
		Action: func(c *cli.Context) error {
			defer RecoverFromPanic()
			output := strings.ToLower(c.String("output"))

			configFilePath, err := resolveConfigFilePath(c, *isDebug)
			if err != nil {
				return err
			}

			cm, err := config.LoadOrCreate(afero.NewOsFs(), configFilePath)
			if err != nil {
				printError(err, output, "Failed to load the config file at "+configFilePath)
				return cli.Exit("", 1)
			}

			name := c.String("name")
			err = cm.AddEnvironment(name, config.Environment{
				APIKey:  c.String("api-key"),
				BaseURL: c.String("base-url"),
			})
			if err != nil {
				printError(err, output, "Failed to create the environment")
				return cli.Exit("", 1)
			}

			printSuccessForOutput(output, fmt.Sprintf("Environment '%s' is created.", name))
			return nil
		},
	}
}

func DeleteEnvironment(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "remove an environment from the configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "the name of the environment to delete",
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "do not ask for confirmation",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "the output type, possible values are: plain, json",
			},
			&cli.StringFlag{
				Name:  "config-file",
				Usage: "the path to the .bitpay.yml file",
			},
		},
		Action: func(c *cli.Context) error {
			defer RecoverFromPanic()
			output := strings.ToLower(c.String("output"))

			configFilePath, err := resolveConfigFilePath(c, *isDebug)
			if err != nil {
				return err
			}

			cm, err := config.LoadOrCreate(afero.NewOsFs(), configFilePath)
			if err != nil {
				printError(err, output, "Failed to load the config file at "+configFilePath)
				return cli.Exit("", 1)
			}

			name := c.String("name")
			if !c.Bool("force") {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("The environment '%s' will be removed from the configuration. Are you sure?", name),
					IsConfirm: true,
				}

				if _, err := prompt.Run(); err != nil {
					fmt.Printf("The operation is cancelled.\n")
					return cli.Exit("", 1)
				}
			}

			if err := cm.DeleteEnvironment(name); err != nil {
				printError(err, output, "Failed to delete the environment")
				return cli.Exit("", 1)
			}

			printSuccessForOutput(output, fmt.Sprintf("Environment '%s' is deleted.", name))
			return nil
		},
	}
}

// resolveConfigFilePath honors the config-file flag and falls back to walking
// up from the current directory.
func resolveConfigFilePath(c *cli.Context, isDebug bool) (string, error) {
	logger := makeLogger(isDebug)

	configFilePath := c.String("config-file")
	if configFilePath != "" {
		return configFilePath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		printError(errors.Wrap(err, "Failed to find the current directory"), strings.ToLower(c.String("output")), "")
		return "", cli.Exit("", 1)
	}

	configFilePath, err = config.LocateConfig(fs, cwd)
	if err != nil {
		printError(errors.Wrap(err, "Failed to locate the configuration file"), strings.ToLower(c.String("output")), "")
		return "", cli.Exit("", 1)
	}
	logger.Debugf("using config file '%s'", configFilePath)

	return configFilePath, nil
}

type EnvironmentListCommand struct{}

func (r *EnvironmentListCommand) Run(output, configFilePath string) error {
	defer RecoverFromPanic()

	cm, err := config.LoadOrCreate(afero.NewOsFs(), configFilePath)
	if err != nil {
		printError(err, output, "Failed to load the config file at "+configFilePath)
		return cli.Exit("", 1)
	}

	envs := cm.GetEnvironmentNames()
	if output == "json" {
		type environ struct {
			Name string `json:"name"`
		}

		type envResponse struct {
			SelectedEnvironment string    `json:"selected_environment"`
			Environments        []environ `json:"environments"`
		}
		resp := envResponse{
			SelectedEnvironment: cm.SelectedEnvironmentName,
			Environments:        make([]environ, len(envs)),
		}

		i := 0
		for _, env := range envs {
			resp.Environments[i] = environ{
				Name: env,
			}
			i++
		}

		js, err := json.Marshal(resp)
		if err != nil {
			printErrorJSON(err)
			return err
		}

		fmt.Println(string(js))
		return nil
	}

	fmt.Println()
	infoPrinter.Println("Selected environment: " + cm.SelectedEnvironmentName)
	infoPrinter.Println("Available environments:")
	for _, env := range envs {
		infoPrinter.Println("- " + env)
	}

	return nil
}
