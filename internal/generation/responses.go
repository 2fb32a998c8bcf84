package generation

import "github.com/ai-creative-studio/studio-backend/internal/studio/domain"

// Canned responses per studio. These stand in for a real generation backend;
// the endpoint picks one at random regardless of the actual prompt.
var (
	textResponses = []string{
		"I'd be happy to help you create compelling content! I can assist with blog posts, articles, marketing copy, social media content, and more. What type of content would you like to work on, and do you have any specific topics or requirements in mind?",
		"Great! Let me help you craft engaging content. Based on your request, I'll create something that captures your audience's attention and delivers your message effectively.",
		"Excellent topic choice! I'll help you develop this into compelling content that resonates with your target audience.",
	}
	codeResponses = []string{
		"I'm ready to help with your coding needs! I can assist with writing new code, debugging existing code, code reviews, optimization, and explaining complex programming concepts. What programming language are you working with, and what specific challenge can I help you solve?",
		"Perfect! Let me help you write clean, efficient code. I'll ensure it follows best practices and is well-documented.",
		"Great question! Here's a solution that addresses your requirements while maintaining code quality and performance.",
	}
	documentResponses = []string{
		"I can help you analyze and extract insights from your documents! I can summarize content, extract key information, answer questions about the document, and provide detailed analysis. Please upload your document or paste the text you'd like me to analyze.",
		"I've analyzed your document and found several key insights. Let me break down the main points and provide you with a comprehensive summary.",
		"Based on the document content, here are the extracted insights and recommendations for your review.",
	}
	creativeResponses = []string{
		"Let's unleash your creativity! I can help you craft stories, write poetry, develop characters, create dialogue, brainstorm plot ideas, and much more. What type of creative writing project are you working on? Do you have a genre, theme, or specific idea in mind?",
		"Wonderful concept! Let me help you develop this creative idea into something truly engaging and memorable.",
		"What an interesting creative direction! I'll help you expand on this idea and bring it to life with vivid detail and compelling narrative.",
	}
)

// ResponsesFor returns the response set for a studio. Unknown studio strings
// get the text set: the fallback is documented behavior, never an error.
func ResponsesFor(studioType string) []string {
	st, _ := domain.ParseStudioType(studioType)
	switch st {
	case domain.StudioCode:
		return codeResponses
	case domain.StudioDocument:
		return documentResponses
	case domain.StudioCreative:
		return creativeResponses
	case domain.StudioText:
		return textResponses
	default:
		return textResponses
	}
}
