package safety

import "fmt"

// Canned replies used instead of generated text on refusal paths. Every
// refusal is user-visible and says why it happened.

const SafeAssignmentReply = "Looks like this maps to an assignment. I won't provide a full solution, " +
	"but here's how to think about it and get started:\n" +
	"1) Identify the required inputs and outputs\n" +
	"2) Break the logic into steps (pseudo-code)\n" +
	"3) Write a minimal version, then iterate\n" +
	"Ask me about any step and I can explain the concept with examples!"

const OffTopicReply = "That seems outside our course scope. I can help with Python fundamentals " +
	"(variables, types, conditionals, loops, functions, lists/tuples/dicts/sets, files, " +
	"exceptions, OOP, modules, NumPy, Pandas). Try rephrasing your question within these topics."

const NoResultsReply = "I couldn't find relevant material for your question in our course documents. " +
	"Try one of these options:\n" +
	"1) Rephrase your question using specific course terms (e.g. 'for loop')\n" +
	"2) Ask about a different topic\n" +
	"3) Ask which modules and lessons are available."

const NothingFoundReply = "I couldn't find relevant material for your question in our course documents. " +
	"Try rephrasing your question or ask about a different course concept."

// InjectionRefusal formats the refusal for a query that tripped the input
// injection check.
func InjectionRefusal(reason string) string {
	return fmt.Sprintf("I detected potentially unsafe or malicious instructions and will not process them.\n\n(Reason: %s)", reason)
}

// ChunkInjectionRefusal formats the refusal for retrieved content that
// tripped the chunk injection check.
func ChunkInjectionRefusal(reason string) string {
	return fmt.Sprintf("Some course documents contain unsafe or system-like instructions. I won't use those sources.\n\n(Reason: %s)", reason)
}
