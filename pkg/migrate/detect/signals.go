package detect

import "regexp"

// builtinSignals is the immutable default pattern table, one entry per
// supported framework. Commands are repeatable strong usage signals, imports
// are one-shot strong identity signals, keywords are weak shared vocabulary.
var builtinSignals = map[string]Signals{
	"jest": {
		Language: "javascript",
		Commands: []*regexp.Regexp{
			regexp.MustCompile(`\bjest\.(fn|mock|spyOn|useFakeTimers|clearAllMocks|resetAllMocks)\s*\(`),
			regexp.MustCompile(`\bexpect\s*\([^)]*\)\s*\.\s*toMatchSnapshot\b`),
		},
		Imports: []*regexp.Regexp{
			regexp.MustCompile(`from\s+['"]@jest/globals['"]`),
			regexp.MustCompile(`require\(\s*['"]@jest/globals['"]\s*\)`),
		},
		Keywords: []*regexp.Regexp{
			regexp.MustCompile(`\b(describe|it|test)\s*\(`),
			regexp.MustCompile(`\bexpect\s*\(`),
		},
		FilePatterns: []string{"**/*.test.js", "**/*.test.ts", "**/*.test.jsx", "**/*.test.tsx", "**/__tests__/**/*.js", "**/__tests__/**/*.ts"},
		ConfigFiles:  []string{"jest.config.js", "jest.config.ts", "jest.config.mjs", "jest.config.json"},
	},
	"vitest": {
		Language: "javascript",
		Commands: []*regexp.Regexp{
			regexp.MustCompile(`\bvi\.(fn|mock|spyOn|useFakeTimers|clearAllMocks|resetAllMocks)\s*\(`),
		},
		Imports: []*regexp.Regexp{
			regexp.MustCompile(`from\s+['"]vitest['"]`),
		},
		Keywords: []*regexp.Regexp{
			regexp.MustCompile(`\b(describe|it|test)\s*\(`),
			regexp.MustCompile(`\bexpect\s*\(`),
		},
		FilePatterns: []string{"**/*.spec.ts", "**/*.test.ts"},
		ConfigFiles:  []string{"vitest.config.js", "vitest.config.ts", "vitest.config.mts", "vitest.workspace.ts"},
	},
	"cypress": {
		Language: "javascript",
		Commands: []*regexp.Regexp{
			regexp.MustCompile(`\bcy\.(visit|get|contains|intercept|request|wait|click|type)\s*\(`),
			regexp.MustCompile(`\bCypress\.(env|config|Commands)\b`),
		},
		Imports: []*regexp.Regexp{
			regexp.MustCompile(`from\s+['"]cypress['"]`),
			regexp.MustCompile(`///\s*<reference\s+types=["']cypress["']`),
		},
		Keywords: []*regexp.Regexp{
			regexp.MustCompile(`\b(describe|it|context)\s*\(`),
		},
		FilePatterns: []string{"**/*.cy.js", "**/*.cy.ts", "cypress/e2e/**/*.js", "cypress/e2e/**/*.ts"},
		ConfigFiles:  []string{"cypress.config.js", "cypress.config.ts", "cypress.json"},
	},
	"playwright": {
		Language: "javascript",
		Commands: []*regexp.Regexp{
			regexp.MustCompile(`\bpage\.(goto|locator|getByRole|getByText|click|fill|route)\s*\(`),
			regexp.MustCompile(`\bexpect\s*\([^)]*\)\s*\.\s*toBeVisible\b`),
		},
		Imports: []*regexp.Regexp{
			regexp.MustCompile(`from\s+['"]@playwright/test['"]`),
		},
		Keywords: []*regexp.Regexp{
			regexp.MustCompile(`\btest\.(describe|beforeEach|afterEach)\s*\(`),
		},
		FilePatterns: []string{"**/*.spec.ts", "tests/**/*.spec.js"},
		ConfigFiles:  []string{"playwright.config.js", "playwright.config.ts"},
	},
	"junit4": {
		Language: "java",
		Commands: []*regexp.Regexp{
			regexp.MustCompile(`@Test\s*\(\s*expected\s*=`),
			regexp.MustCompile(`@RunWith\s*\(`),
		},
		Imports: []*regexp.Regexp{
			regexp.MustCompile(`import\s+(static\s+)?org\.junit\.(?:Test|Before|After|Assert|Assume|Rule|Ignore)\b`),
			regexp.MustCompile(`import\s+org\.junit\.runner\.`),
		},
		Keywords: []*regexp.Regexp{
			regexp.MustCompile(`@(Before|After|BeforeClass|AfterClass|Ignore)\b`),
			regexp.MustCompile(`\bAssert\.\w+\s*\(`),
		},
		FilePatterns: []string{"**/src/test/java/**/*Test.java", "**/*Test.java"},
		ConfigFiles:  []string{},
	},
	"junit5": {
		Language: "java",
		Commands: []*regexp.Regexp{
			regexp.MustCompile(`\bAssertions\.\w+\s*\(`),
			regexp.MustCompile(`\bassertThrows\s*\(`),
		},
		Imports: []*regexp.Regexp{
			regexp.MustCompile(`import\s+(static\s+)?org\.junit\.jupiter\.`),
		},
		Keywords: []*regexp.Regexp{
			regexp.MustCompile(`@(BeforeEach|AfterEach|BeforeAll|AfterAll|DisplayName|Nested|ParameterizedTest|Disabled)\b`),
		},
		FilePatterns: []string{"**/src/test/java/**/*Test.java", "**/*Test.java"},
		ConfigFiles:  []string{"**/junit-platform.properties"},
	},
	"testng": {
		Language: "java",
		Commands: []*regexp.Regexp{
			regexp.MustCompile(`@Test\s*\(\s*(groups|dataProvider|priority)\s*=`),
			regexp.MustCompile(`@DataProvider\b`),
		},
		Imports: []*regexp.Regexp{
			regexp.MustCompile(`import\s+(static\s+)?org\.testng\.`),
		},
		Keywords: []*regexp.Regexp{
			regexp.MustCompile(`@(BeforeMethod|AfterMethod|BeforeClass|AfterClass|BeforeSuite|AfterSuite)\b`),
			regexp.MustCompile(`\bAssert\.\w+\s*\(`),
		},
		FilePatterns: []string{"**/src/test/java/**/*Test.java"},
		ConfigFiles:  []string{"**/testng.xml"},
	},
	"pytest": {
		Language: "python",
		Commands: []*regexp.Regexp{
			regexp.MustCompile(`@pytest\.(fixture|mark\.\w+)`),
			regexp.MustCompile(`\bpytest\.(raises|approx|skip|fail|param)\s*\(`),
			regexp.MustCompile(`\bmonkeypatch\.\w+\(`),
		},
		Imports: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*import\s+pytest\b`),
			regexp.MustCompile(`(?m)^\s*from\s+pytest\b`),
		},
		Keywords: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*def\s+test_\w+`),
			regexp.MustCompile(`(?m)^\s*assert\s`),
		},
		FilePatterns: []string{"**/test_*.py", "**/*_test.py"},
		ConfigFiles:  []string{"pytest.ini", "conftest.py", "**/conftest.py"},
	},
	"unittest": {
		Language: "python",
		Commands: []*regexp.Regexp{
			regexp.MustCompile(`\bself\.assert\w+\s*\(`),
			regexp.MustCompile(`\bunittest\.(main|TestCase|skip)\b`),
		},
		Imports: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*import\s+unittest\b`),
			regexp.MustCompile(`(?m)^\s*from\s+unittest\b`),
		},
		Keywords: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*class\s+\w+\s*\(\s*unittest\.TestCase\s*\)`),
			regexp.MustCompile(`(?m)^\s*def\s+test_?\w*`),
		},
		FilePatterns: []string{"**/test_*.py", "**/test*.py"},
		ConfigFiles:  []string{},
	},
}
