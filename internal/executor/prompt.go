package executor

// Review focus variants.
const (
	FocusDefault     = "default"
	FocusSecurity    = "security"
	FocusPerformance = "performance"
)

const defaultPrompt = `Please review the changes in the latest commits and analyse them from these angles:
1. Code quality and best practices
2. Potential bugs and security issues
3. Performance improvements
4. Code style and readability

Group findings by severity (critical, high, medium, low), reference file:line for each,
start with a "## Summary" section and end with "Score: N" (0-100).`

const securityPrompt = `Please review the changes in the latest commits with a security focus:

1. **Vulnerabilities**: SQL injection, XSS, CSRF, command injection, path traversal
2. **Secret exposure**: hard-coded passwords, API keys or tokens; sensitive data stored or sent in clear text; secrets in logs
3. **Authentication and authorization**: broken authentication, missing permission checks, session handling
4. **Input validation**: missing validation, unsafe deserialization

Describe every issue with its severity and file:line, and give a fix. End with "Score: N" (0-100).`

const performancePrompt = `Please review the changes in the latest commits with a performance focus:

1. **Algorithms and data structures**: time and space complexity, better data structures
2. **Database**: N+1 queries, missing indexes, inefficient statements
3. **Resources**: memory leaks, unclosed resources, caching opportunities
4. **Concurrency**: work that could run asynchronously, race conditions

Give concrete suggestions with file:line and the expected gain. End with "Score: N" (0-100).`

// Prompt returns the built-in prompt for focus. Unknown values fall back to the default.
func Prompt(focus string) string {
	switch focus {
	case FocusSecurity:
		return securityPrompt
	case FocusPerformance:
		return performancePrompt
	default:
		return defaultPrompt
	}
}
