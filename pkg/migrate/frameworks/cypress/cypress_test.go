package cypress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
)

const cypressSource = `describe('login', () => {
  beforeEach(() => {
    cy.visit('/login');
  });

  it('accepts valid credentials', () => {
    cy.get('#user').type('alice');
    cy.intercept('POST', '/api/login').as('login');
    expect(session.token).to.exist;
  });
});
`

const playwrightSource = `import { test, expect } from '@playwright/test';

test.describe('login', () => {
  test('accepts valid credentials', async ({ page }) => {
    await page.goto('/login');
    await page.locator('#user').fill('alice');
    await page.screenshot({ path: 'login.png' });
  });
});
`

func TestDetect(t *testing.T) {
	assert.Greater(t, Detect(cypressSource), 50)
	assert.Equal(t, 0, Detect(playwrightSource))
	assert.Equal(t, 0, Detect("public class Foo {}"))
}

func TestParseMarksCommandsFrameworkSpecific(t *testing.T) {
	file := Parse(cypressSource)

	var flagged []string
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		if r, ok := n.(*ir.RawCode); ok && r.NodeMeta.FrameworkSpecific {
			flagged = append(flagged, strings.TrimSpace(r.Code))
		}
		return ir.Continue
	})
	assert.Contains(t, flagged, "cy.visit('/login');")

	var mocks []*ir.MockCall
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		if m, ok := n.(*ir.MockCall); ok {
			mocks = append(mocks, m)
		}
		return ir.Continue
	})
	require.Len(t, mocks, 1)
	assert.Equal(t, "networkIntercept", mocks[0].MockKind)
}

func TestEmitConvertsPlaywrightSource(t *testing.T) {
	file := Parse(playwrightSource)
	out := Emit(file, playwrightSource)

	assert.Contains(t, out, "describe('login', () => {")
	assert.Contains(t, out, "it('accepts valid credentials', () => {")
	assert.Contains(t, out, "cy.visit('/login');")
	assert.Contains(t, out, "cy.get('#user').type('alice');")
	assert.NotContains(t, out, "@playwright/test")
}

func TestEmitMarksUnmappedPageCalls(t *testing.T) {
	out := Emit(nil, playwrightSource)

	// page.screenshot has no cy equivalent; the line stays under a marker.
	assert.Contains(t, out, "HAMLET-TODO(")
	assert.Contains(t, out, "no direct cy equivalent for this browser call")
	assert.Contains(t, out, "page.screenshot")
}

func TestEmitTreeTranslatesRawCommands(t *testing.T) {
	src := `test.describe('login', () => {
  test('loads', async ({ page }) => {
    await page.goto('/login');
  });
});
`
	out := EmitTree(Parse(src))

	assert.Contains(t, out, "describe('login', () => {")
	assert.Contains(t, out, "cy.visit('/login');")
	// Cypress injects globals; no framework import line.
	assert.NotContains(t, out, "import {")
}

func TestDefinitionComplete(t *testing.T) {
	def := Definition()
	assert.Equal(t, "cypress", def.Name)
	assert.Equal(t, "global", def.Imports.Style)
	assert.NotNil(t, def.EmitTree)
}
