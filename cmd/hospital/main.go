package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hospitalsys/records/internal/config"
	"github.com/hospitalsys/records/internal/repository/postgres"
	"github.com/hospitalsys/records/internal/service/workflow"
	"github.com/hospitalsys/records/internal/shell"
	"github.com/hospitalsys/records/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		boot := logger.NewLogger(nil)
		boot.Fatal(err, "failed to load configuration")
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.LogLevel()})

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatal(err, "failed to bootstrap schema")
	}

	// Initialize repositories
	repos := shell.Repos{
		Persons:      postgres.NewPersonRepository(db),
		Doctors:      postgres.NewDoctorRepository(db),
		Patients:     postgres.NewPatientRepository(db),
		Appointments: postgres.NewAppointmentRepository(db),
		Bills:        postgres.NewBillRepository(db),
		Statuses:     postgres.NewAppointmentStatusRepository(db),
		Reporting:    postgres.NewReportingRepository(db),
	}

	// Initialize the workflow core
	validator := workflow.NewValidator(repos.Patients, repos.Doctors, repos.Statuses)
	engine := workflow.NewEngine(postgres.NewSessionFactory(db), validator, log)
	workflows := workflow.NewService(engine)

	sh := shell.New(os.Stdin, os.Stdout, log, repos, workflows)
	if err := sh.Run(ctx); err != nil {
		log.Fatal(err, "shell terminated with error")
	}
}
