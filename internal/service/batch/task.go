package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
)

// TaskClient はStep Functionsのタスク結果通知に使うAPIです（*sfn.Client が満たします）
type TaskClient interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
	SendTaskFailure(ctx context.Context, params *sfn.SendTaskFailureInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error)
}

// sendTaskSuccess は、Step Functionsのタスク成功を通知し、結果を返却します
func sendTaskSuccess(ctx context.Context, client TaskClient, taskToken string, output any) error {
	// ローカルの場合はStep Functionsの処理をスキップ
	if os.Getenv("ENV") == "LOCAL" || client == nil {
		log.Printf("Local environment detected. Skipping Step Functions task success notification")
		return nil
	}

	if taskToken == "" {
		return fmt.Errorf("SFN_TASK_TOKEN is not set in config")
	}

	body, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("failed to marshal task output: %w", err)
	}

	// SendTaskSuccess APIを呼び出す
	input := &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(taskToken),
		Output:    aws.String(string(body)),
	}

	if _, err := client.SendTaskSuccess(ctx, input); err != nil {
		return fmt.Errorf("failed to send task success: %w", err)
	}

	log.Printf("Successfully sent task success: %s", string(body))
	return nil
}

// SendTaskFailure はバッチ失敗をStep Functionsに通知します
// ローカル環境とクライアント未設定の場合は何もしません
func SendTaskFailure(ctx context.Context, client TaskClient, taskToken string, cause error) error {
	if os.Getenv("ENV") == "LOCAL" || client == nil {
		return nil
	}

	input := &sfn.SendTaskFailureInput{
		TaskToken: aws.String(taskToken),
		Error:     aws.String("Batch process failed"),
	}
	if cause != nil {
		input.Cause = aws.String(cause.Error())
	}

	if _, err := client.SendTaskFailure(ctx, input); err != nil {
		return fmt.Errorf("failed to send task failure: %w", err)
	}
	return nil
}
