package migrate

import (
	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/cypress"
	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/jest"
	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/junit4"
	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/junit5"
	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/playwright"
	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/pytest"
	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/testng"
	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/unittest"
	"github.com/pmclSF/hamlet/pkg/migrate/frameworks/vitest"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

// registerBuiltins populates a registry with every adapter this module ships.
// Registration of a builtin cannot fail; a panic here means an adapter's
// Definition no longer satisfies the contract.
func registerBuiltins(reg *registry.Registry) {
	defs := []*registry.Definition{
		jest.Definition(),
		vitest.Definition(),
		cypress.Definition(),
		playwright.Definition(),
		junit4.Definition(),
		junit5.Definition(),
		testng.Definition(),
		pytest.Definition(),
		unittest.Definition(),
	}
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			panic("builtin adapter " + def.Name + ": " + err.Error())
		}
	}
}
