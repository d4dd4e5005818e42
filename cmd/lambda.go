package cmd

import (
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-processor/internal/config"
	"github.com/vzahanych/weather-processor/internal/processor"
)

const (
	functionProcessor = "processor"
	functionHello     = "hello"
)

func lambdaCmd() *cobra.Command {
	var function string

	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function",
		Long:  `Start the Lambda runtime loop and serve invocations with the selected function.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch function {
			case functionProcessor:
				proc, err := newProcessor(config.GetConfig())
				if err != nil {
					return err
				}
				lambda.StartWithOptions(proc.Handle, lambda.WithContext(cmd.Context()))
			case functionHello:
				lambda.StartWithOptions(processor.Hello(log), lambda.WithContext(cmd.Context()))
			default:
				return fmt.Errorf("unknown function %q", function)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&function, "function", "f", functionProcessor, "function to serve: processor or hello")

	return cmd
}
