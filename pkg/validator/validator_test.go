package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/validator"
)

type sample struct {
	Name     string `json:"product_name" validate:"required,max=10"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
	Type     string `json:"transaction_type" validate:"oneof=Sale Purchase"`
	Date     string `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidateStruct_Valido(t *testing.T) {
	errs := validator.ValidateStruct(sample{Name: "Leche", Quantity: 1, Type: "Sale", Date: "2030-01-31"})
	assert.Nil(t, errs)
}

func TestValidateStruct_UsaNombresJSON(t *testing.T) {
	errs := validator.ValidateStruct(sample{Quantity: 0, Type: "Gift", Date: "31/01/2030"})
	require.Len(t, errs, 4)

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.FailedField] = e.Tag
	}
	assert.Equal(t, "required", byField["product_name"])
	assert.Equal(t, "gt", byField["quantity"])
	assert.Equal(t, "oneof", byField["transaction_type"])
	assert.Equal(t, "datetime", byField["expiration_date"])
}
