package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"strconv"

	"nsportal/internal/config"
	"nsportal/internal/domain"
	"nsportal/internal/repository/postgres"
	serviceAuth "nsportal/internal/service/auth"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed sample apps")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := config.NewLogger(os.Stdout, cfg.Debug)
	logger.Info("seeding database",
		"environment", cfg.Environment,
		"prefix", cfg.TablePrefix,
		"schema_only", *schemaOnly,
	)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		if err := postgres.DropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		logger.Info("tables dropped", "tables", tables.All())
	}

	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	logger.Info("schema ready")

	if *schemaOnly {
		return
	}

	txManager := postgres.NewTransactionManager(pool, logger)
	err = txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return seedSampleApps(txCtx, pool, tables, logger)
	})
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) && conflict.Reason == postgres.ReasonDuplicate {
		logger.Info("sample apps already present, nothing seeded",
			"resource", conflict.ResourceType,
			"id", conflict.ResourceID,
			"hint", "rerun with -drop-tables for a fresh start",
		)
		return
	}
	if err != nil {
		log.Fatalf("Failed to seed sample apps: %v", err)
	}

	logger.Info("seeding complete")
}

// seedApp describes one sample application
type seedApp struct {
	appID      string
	masters    []string
	namespaces []seedNamespace
}

type seedNamespace struct {
	name      string
	isPublic  bool
	owner     bool // the app defines the namespace rather than linking it
	instances int
	branch    string
}

// sampleApps covers every delete outcome: a deletable public namespace, a
// private one, one with live instances, one whose branch is in use and a
// public namespace linked from another app.
var sampleApps = []seedApp{
	{
		appID:   "SampleApp",
		masters: []string{"apollo"},
		namespaces: []seedNamespace{
			{name: "application", owner: true},
			{name: "TEST1.shared", isPublic: true, owner: true},
			{name: "TEST1.busy", isPublic: true, owner: true, instances: 2},
			{name: "TEST1.gray", isPublic: true, owner: true, branch: "gray-1"},
		},
	},
	{
		appID:   "OtherApp",
		masters: []string{"operator"},
		namespaces: []seedNamespace{
			{name: "application", owner: true},
			{name: "TEST1.shared", isPublic: true},
		},
	},
}

var sampleUsers = map[string]string{
	"apollo":   "Apollo Admin",
	"operator": "Portal Operator",
}

func seedSampleApps(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, logger *slog.Logger) error {
	db := postgres.GetExecutor(ctx, pool)
	const env, cluster = "DEV", "default"

	for userID, name := range sampleUsers {
		_, err := db.Exec(ctx, `INSERT INTO `+tables.Users+` (user_id, name, email)
			VALUES ($1, $2, $3) ON CONFLICT (user_id) DO NOTHING`,
			userID, name, userID+"@example.com")
		if err != nil {
			return err
		}
	}

	for _, app := range sampleApps {
		var roleID string
		err := db.QueryRow(ctx, `INSERT INTO `+tables.Roles+` (role_name) VALUES ($1)
			ON CONFLICT (role_name) DO UPDATE SET role_name = EXCLUDED.role_name
			RETURNING id`, serviceAuth.MasterRoleName(app.appID)).Scan(&roleID)
		if err != nil {
			return err
		}
		for _, userID := range app.masters {
			_, err := db.Exec(ctx, `INSERT INTO `+tables.UserRoles+` (user_id, role_id) VALUES ($1, $2)`, userID, roleID)
			if err != nil {
				return postgres.ConstraintError(err, "user role", userID+"+"+roleID)
			}
		}

		for _, ns := range app.namespaces {
			if ns.owner {
				if _, err := db.Exec(ctx, `INSERT INTO `+tables.AppNamespaces+` (app_id, name, is_public) VALUES ($1, $2, $3)`,
					app.appID, ns.name, ns.isPublic); err != nil {
					return postgres.ConstraintError(err, "app namespace", app.appID+"+"+ns.name)
				}
			}

			var namespaceID string
			err := db.QueryRow(ctx, `INSERT INTO `+tables.Namespaces+` (app_id, env, cluster_name, namespace_name)
				VALUES ($1, $2, $3, $4) RETURNING id`, app.appID, env, cluster, ns.name).Scan(&namespaceID)
			if err != nil {
				return postgres.ConstraintError(err, "namespace", app.appID+"+"+env+"+"+cluster+"+"+ns.name)
			}
			if _, err := db.Exec(ctx, `INSERT INTO `+tables.Items+` (namespace_id, key, value) VALUES ($1, 'timeout', '3000')`, namespaceID); err != nil {
				return err
			}

			if err := seedInstances(ctx, db, tables, app.appID, env, cluster, ns.name, ns.instances); err != nil {
				return err
			}

			if ns.branch != "" {
				_, err := db.Exec(ctx, `INSERT INTO `+tables.Namespaces+` (app_id, env, cluster_name, namespace_name, parent_cluster_name)
					VALUES ($1, $2, $3, $4, $5)`, app.appID, env, ns.branch, ns.name, cluster)
				if err != nil {
					return postgres.ConstraintError(err, "namespace", app.appID+"+"+env+"+"+ns.branch+"+"+ns.name)
				}
				if err := seedInstances(ctx, db, tables, app.appID, env, ns.branch, ns.name, 1); err != nil {
					return err
				}
			}

			logger.Info("seeded namespace",
				"app_id", app.appID,
				"namespace", ns.name,
				"public", ns.isPublic,
				"instances", ns.instances,
				"branch", ns.branch,
			)
		}
	}

	return nil
}

type executor interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func seedInstances(ctx context.Context, db executor, tables *postgres.TableNames, appID, env, cluster, namespace string, n int) error {
	for i := range n {
		var instanceID string
		err := db.QueryRow(ctx, `INSERT INTO `+tables.Instances+` (app_id, env, cluster_name, ip)
			VALUES ($1, $2, $3, $4) RETURNING id`, appID, env, cluster, "10.0.0."+strconv.Itoa(i+1)).Scan(&instanceID)
		if err != nil {
			return err
		}
		var configID string
		err = db.QueryRow(ctx, `INSERT INTO `+tables.InstanceConfigs+`
			(instance_id, config_app_id, env, config_cluster_name, config_namespace_name, release_key)
			VALUES ($1, $2, $3, $4, $5, 'seed') RETURNING id`,
			instanceID, appID, env, cluster, namespace).Scan(&configID)
		if err != nil {
			return err
		}
	}
	return nil
}
