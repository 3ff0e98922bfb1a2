package testutil

import "pinkas/model"

// Stream event builders for tests.

func TextDelta(delta string) model.StreamEvent {
	return model.StreamEvent{Type: model.EventTextDelta, Delta: delta}
}

func ToolStart(toolCallID, toolName string) model.StreamEvent {
	return model.StreamEvent{
		Type:       model.EventToolInputStart,
		ToolCallID: toolCallID,
		ToolName:   toolName,
	}
}

func ToolInput(toolCallID, toolName string, input map[string]any) model.StreamEvent {
	return model.StreamEvent{
		Type:       model.EventToolInputAvailable,
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Input:      input,
	}
}

func ToolOutput(toolCallID string, output map[string]any) model.StreamEvent {
	return model.StreamEvent{
		Type:       model.EventToolOutput,
		ToolCallID: toolCallID,
		Output:     output,
	}
}

func Finish() model.StreamEvent {
	return model.StreamEvent{Type: model.EventFinish}
}

func StreamError(message string) model.StreamEvent {
	return model.StreamEvent{Type: model.EventError, Message: message}
}
