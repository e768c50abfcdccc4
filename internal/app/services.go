package app

import (
	"fmt"

	"qemcp/internal/ado"
	"qemcp/internal/api"
	"qemcp/internal/config"
	"qemcp/internal/server"
	"qemcp/internal/template"
	"qemcp/internal/testplan"
	"qemcp/pkg/logging"
)

// Services holds all initialized services of the application.
type Services struct {
	TestPlan        *testplan.Service
	TestPlanAdapter *testplan.Adapter
	ConfigAdapter   *ConfigAdapter
	Server          *server.Server
}

// InitializeServices creates the services and registers their adapters
// with the API layer. cfg.QEConfig must be loaded and valid.
func InitializeServices(cfg *Config) (*Services, error) {
	qeCfg := *cfg.QEConfig

	backend, err := newBackend(qeCfg.ADO)
	if err != nil {
		return nil, err
	}

	var guard testplan.SuiteGuard
	if qeCfg.Reconcile.SerializeSuiteCreation {
		guard = testplan.NewKeyedSuiteGuard()
		logging.Info("Bootstrap", "Suite creation is serialized per plan and story")
	}

	opts, err := serviceOptions(qeCfg)
	if err != nil {
		return nil, err
	}
	service := testplan.NewService(backend, guard, opts)
	testPlanAdapter := testplan.NewAdapter(service)
	testPlanAdapter.Register()

	configAdapter := NewConfigAdapter(qeCfg, cfg.ConfigPath, func(updated config.Config) error {
		return applyConfig(service, updated)
	})
	configAdapter.Register()

	srv := server.New(server.Config{ServerConfig: qeCfg.Server, Version: cfg.Version})

	logging.Info("Bootstrap", "Using Azure DevOps project %s at %s", qeCfg.ADO.Project, qeCfg.ADO.OrganizationURL)

	return &Services{
		TestPlan:        service,
		TestPlanAdapter: testPlanAdapter,
		ConfigAdapter:   configAdapter,
		Server:          srv,
	}, nil
}

// newBackend creates the Azure DevOps client for the ADO section.
func newBackend(cfg config.ADOConfig) (api.Backend, error) {
	token, err := cfg.Auth.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read Azure DevOps credentials: %w", err)
	}

	client, err := ado.NewClient(ado.Options{
		OrganizationURL: cfg.OrganizationURL,
		Project:         cfg.Project,
		APIVersion:      cfg.APIVersion,
		AuthType:        ado.AuthType(cfg.Auth.Type),
		Token:           token,
		Timeout:         cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure DevOps client: %w", err)
	}
	return client, nil
}

func serviceOptions(cfg config.Config) (testplan.Options, error) {
	opts := testplan.Options{
		Parallelism:   cfg.Reconcile.Parallelism,
		AreaPath:      cfg.ADO.AreaPath,
		IterationPath: cfg.ADO.IterationPath,
	}

	names := cfg.Reconcile.SuiteNames
	if names.Feature != "" {
		tmpl, err := template.Parse("feature suite name", names.Feature)
		if err != nil {
			return testplan.Options{}, err
		}
		opts.Names.Feature = tmpl
	}
	if names.Requirement != "" {
		tmpl, err := template.Parse("requirement suite name", names.Requirement)
		if err != nil {
			return testplan.Options{}, err
		}
		opts.Names.Requirement = tmpl
	}
	return opts, nil
}

// applyConfig swaps a new backend and options into the running service.
func applyConfig(service *testplan.Service, cfg config.Config) error {
	backend, err := newBackend(cfg.ADO)
	if err != nil {
		return err
	}
	opts, err := serviceOptions(cfg)
	if err != nil {
		return err
	}
	service.Reconfigure(backend, opts)
	logging.Info("Config", "Applied configuration for project %s", cfg.ADO.Project)
	return nil
}
