package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hospitalsys/records/internal/model"
	apperrors "github.com/hospitalsys/records/pkg/errors"
)

func (r *personRepository) Create(ctx context.Context, person *model.Person) (int64, error) {
	query := `
		INSERT INTO person (first_name, last_name, date_of_birth)
		VALUES ($1, $2, $3)
		RETURNING person_id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query,
		person.FirstName,
		person.LastName,
		person.DateOfBirth,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create person: %w", err)
	}
	person.ID = id
	return id, nil
}

func (r *personRepository) Get(ctx context.Context, id int64) (*model.Person, error) {
	query := `
		SELECT person_id, first_name, last_name, date_of_birth
		FROM person
		WHERE person_id = $1
	`
	var person model.Person
	err := r.db.GetContext(ctx, &person, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("person", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return &person, nil
}

func (r *personRepository) List(ctx context.Context) ([]*model.Person, error) {
	query := `
		SELECT person_id, first_name, last_name, date_of_birth
		FROM person
		ORDER BY person_id
	`
	var persons []*model.Person
	err := r.db.SelectContext(ctx, &persons, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}
