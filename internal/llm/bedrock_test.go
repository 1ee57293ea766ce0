package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

type fakeConverseAPI struct {
	in  *bedrockruntime.ConverseInput
	out *bedrockruntime.ConverseOutput
	err error
}

func (f *fakeConverseAPI) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.in = params
	return f.out, f.err
}

func converseTextOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{
			Value: brtypes.Message{
				Role: brtypes.ConversationRoleAssistant,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: text},
				},
			},
		},
		StopReason: brtypes.StopReasonEndTurn,
		Usage: &brtypes.TokenUsage{
			InputTokens:  aws.Int32(10),
			OutputTokens: aws.Int32(5),
			TotalTokens:  aws.Int32(15),
		},
	}
}

func TestBedrockCompleteMapsRolesAndSystem(t *testing.T) {
	api := &fakeConverseAPI{out: converseTextOutput("  Hello there.  ")}
	c := NewBedrockClient(api)

	resp, err := c.Complete(context.Background(), Request{
		Model:  "anthropic.claude-3-haiku",
		System: []string{"You are a receptionist."},
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: "Hi"},
			{Role: ChatRoleAssistant, Content: "Hello!"},
			{Role: ChatRoleUser, Content: "I have a leak"},
		},
		MaxTokens:   150,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Hello there." {
		t.Errorf("Text = %q, want trimmed text", resp.Text)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("TotalTokens = %d, want 15", resp.Usage.TotalTokens)
	}
	if len(api.in.System) != 1 {
		t.Errorf("system blocks = %d, want 1", len(api.in.System))
	}
	if len(api.in.Messages) != 3 {
		t.Errorf("messages = %d, want 3", len(api.in.Messages))
	}
	if api.in.InferenceConfig == nil || *api.in.InferenceConfig.MaxTokens != 150 {
		t.Error("inference config should carry max tokens")
	}
}

func TestBedrockCompleteRequiresModel(t *testing.T) {
	c := NewBedrockClient(&fakeConverseAPI{})
	if _, err := c.Complete(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for missing model id")
	}
}

func TestBedrockCompletePropagatesAPIError(t *testing.T) {
	api := &fakeConverseAPI{err: errors.New("throttled")}
	c := NewBedrockClient(api)
	if _, err := c.Complete(context.Background(), Request{Model: "m"}); err == nil {
		t.Fatal("expected API error")
	}
}

func TestBedrockCompleteEmptyOutput(t *testing.T) {
	api := &fakeConverseAPI{out: &bedrockruntime.ConverseOutput{}}
	c := NewBedrockClient(api)
	if _, err := c.Complete(context.Background(), Request{Model: "m", Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}}); err == nil {
		t.Fatal("expected error for missing message output")
	}
}
