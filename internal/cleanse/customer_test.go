package cleanse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratify-labs/stratify/internal/record"
)

func TestCustomers_Dedup(t *testing.T) {
	old := date(2024, 1, 1)
	recent := date(2024, 6, 1)

	raws := []record.RawCustomer{
		{ID: ptr[int64](11000), Key: ptr("AW00011000"), FirstName: ptr("Jon"), Created: &old},
		{ID: ptr[int64](11000), Key: ptr("AW00011000"), FirstName: ptr("Jonathan"), Created: &recent},
	}

	customers := Customers(raws)
	require.Len(t, customers, 1)
	assert.Equal(t, int64(11000), customers[0].ID)
	assert.Equal(t, "Jonathan", customers[0].FirstName, "row with the latest create date must win")
}

func TestCustomers_DropsNullIDs(t *testing.T) {
	raws := []record.RawCustomer{
		{ID: nil, FirstName: ptr("ghost")},
		{ID: ptr[int64](1), FirstName: ptr("kept")},
	}

	customers := Customers(raws)
	require.Len(t, customers, 1)
	assert.Equal(t, int64(1), customers[0].ID)
}

func TestCustomers_NormalizesFields(t *testing.T) {
	created := date(2025, 3, 2)
	raws := []record.RawCustomer{
		{
			ID:            ptr[int64](29466),
			Key:           ptr(" AW00029466 "),
			FirstName:     ptr("  Lance "),
			LastName:      ptr(" Jimenez  "),
			MaritalStatus: ptr("m"),
			Gender:        ptr("  F "),
			Created:       &created,
		},
	}

	customers := Customers(raws)
	require.Len(t, customers, 1)

	c := customers[0]
	assert.Equal(t, "AW00029466", c.Key)
	assert.Equal(t, "Lance", c.FirstName)
	assert.Equal(t, "Jimenez", c.LastName)
	assert.Equal(t, "Married", c.MaritalStatus)
	assert.Equal(t, "Female", c.Gender)
	assert.Equal(t, created, *c.Created)
}

func TestCustomers_SortedByID(t *testing.T) {
	raws := []record.RawCustomer{
		{ID: ptr[int64](3)},
		{ID: ptr[int64](1)},
		{ID: ptr[int64](2)},
	}

	customers := Customers(raws)
	require.Len(t, customers, 3)
	for i, want := range []int64{1, 2, 3} {
		assert.Equal(t, want, customers[i].ID)
	}
}

func TestCustomers_Idempotent(t *testing.T) {
	created := date(2024, 5, 5)
	raws := []record.RawCustomer{
		{ID: ptr[int64](7), Key: ptr("AW7"), MaritalStatus: ptr("S"), Created: &created},
		{ID: ptr[int64](8), Key: ptr("AW8"), Gender: ptr("M"), Created: &created},
	}

	first := Customers(raws)
	second := Customers(raws)
	assert.Equal(t, first, second)
}
