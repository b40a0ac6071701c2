package pipeline

import (
	"fmt"

	"github.com/hyunwoo-dev/paperlens/internal/llm"
)

const systemPrompt = "You are a document assistant that answers questions based on the given technical paper."

// fewShot primes the model with the expected answer style before the real
// user prompt is appended.
var fewShot = []llm.Message{
	{Role: llm.RoleSystem, Content: systemPrompt},
	{
		Role:    llm.RoleUser,
		Content: "Document: This paper automates drone flight control using reinforcement learning.\nQuestion: What is the core technique of this paper?",
	},
	{
		Role:    llm.RoleAssistant,
		Content: "The core technique of this paper is the application of a reinforcement learning algorithm to the flight control system.",
	},
	{
		Role:    llm.RoleUser,
		Content: "Document: This paper covers the sensor fusion system of autonomous vehicles.\nQuestion: What is the core technique of this paper?",
	},
	{
		Role:    llm.RoleAssistant,
		Content: "The core of this paper is a sensor fusion technique that integrates data from multiple sensors to improve autonomous driving accuracy.",
	},
}

func promptMessages(userPrompt string) []llm.Message {
	msgs := make([]llm.Message, 0, len(fewShot)+1)
	msgs = append(msgs, fewShot...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: userPrompt})
	return msgs
}

func summaryPrompt(text string) string {
	return fmt.Sprintf("The following is the paper content:\n%s\n\nPlease summarize it.", text)
}

func classifyPrompt(text string) string {
	return fmt.Sprintf("The following is a summary of a technical paper:\n%s\n\nName the single technical domain this paper belongs to. Answer with the domain label only.", text)
}

func qaPrompt(context, question string) string {
	return fmt.Sprintf("The following is relevant paper content:\n%s\n\nUser question:\n%s", context, question)
}
