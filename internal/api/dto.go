package api

import (
	"github.com/shopspring/decimal"

	"github.com/billease/billease/internal/models"
	"github.com/billease/billease/internal/store"
)

// Money values cross the API boundary as floats rounded to two places; all
// internal arithmetic stays in full-precision decimals.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

type itemDTO struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Price      float64             `json:"price"`
	AssignedTo models.AssignTarget `json:"assignedTo"`
}

type chargesDTO struct {
	Subtotal      float64 `json:"subtotal"`
	VAT           float64 `json:"vat"`
	ServiceCharge float64 `json:"serviceCharge"`
	Delivery      float64 `json:"delivery"`
}

type stateDTO struct {
	Items     []itemDTO           `json:"items"`
	People    []models.Person     `json:"people"`
	Pools     []models.CustomPool `json:"pools"`
	Charges   chargesDTO          `json:"charges"`
	PriceMode models.PriceMode    `json:"priceMode"`
	Notice    *store.Notice       `json:"notice,omitempty"`
}

func toStateDTO(s store.State) stateDTO {
	dto := stateDTO{
		Items:  make([]itemDTO, len(s.Items)),
		People: s.People,
		Pools:  s.Pools,
		Charges: chargesDTO{
			Subtotal:      money(s.Charges.Subtotal),
			VAT:           money(s.Charges.VAT),
			ServiceCharge: money(s.Charges.ServiceCharge),
			Delivery:      money(s.Charges.Delivery),
		},
		PriceMode: s.PriceMode,
		Notice:    s.Notice,
	}
	if dto.People == nil {
		dto.People = []models.Person{}
	}
	if dto.Pools == nil {
		dto.Pools = []models.CustomPool{}
	}
	for i, item := range s.Items {
		dto.Items[i] = itemDTO{
			ID:         item.ID,
			Name:       item.Name,
			Price:      money(item.Price),
			AssignedTo: item.AssignedTo,
		}
	}
	return dto
}

type poolContributionDTO struct {
	PoolID   string  `json:"poolId"`
	PoolName string  `json:"poolName"`
	Amount   float64 `json:"amount"`
}

type personSummaryDTO struct {
	PersonID           string                `json:"personId"`
	Name               string                `json:"name"`
	Items              []itemDTO             `json:"items"`
	ItemsSubtotal      float64               `json:"itemsSubtotal"`
	SharedPortion      float64               `json:"sharedPortion"`
	PoolContributions  []poolContributionDTO `json:"poolContributions,omitempty"`
	VATShare           float64               `json:"vatShare"`
	ServiceChargeShare float64               `json:"serviceChargeShare"`
	DeliveryShare      float64               `json:"deliveryShare"`
	TotalDue           float64               `json:"totalDue"`
}

type summaryDTO struct {
	People           []personSummaryDTO `json:"people"`
	GrandTotal       float64            `json:"grandTotal"`
	ItemsTotal       float64            `json:"itemsTotal"`
	SharedItemsTotal float64            `json:"sharedItemsTotal"`
	EffectiveBase    float64            `json:"effectiveBase"`
}

func toSummaryDTO(s models.Summary) summaryDTO {
	dto := summaryDTO{
		People:           make([]personSummaryDTO, len(s.People)),
		GrandTotal:       money(s.GrandTotal),
		ItemsTotal:       money(s.ItemsTotal),
		SharedItemsTotal: money(s.SharedItemsTotal),
		EffectiveBase:    money(s.EffectiveBase),
	}
	for i, ps := range s.People {
		row := personSummaryDTO{
			PersonID:           ps.PersonID,
			Name:               ps.Name,
			Items:              make([]itemDTO, len(ps.Items)),
			ItemsSubtotal:      money(ps.ItemsSubtotal),
			SharedPortion:      money(ps.SharedPortion),
			VATShare:           money(ps.VATShare),
			ServiceChargeShare: money(ps.ServiceChargeShare),
			DeliveryShare:      money(ps.DeliveryShare),
			TotalDue:           money(ps.TotalDue),
		}
		for j, item := range ps.Items {
			row.Items[j] = itemDTO{
				ID:         item.ID,
				Name:       item.Name,
				Price:      money(item.Price),
				AssignedTo: item.AssignedTo,
			}
		}
		for _, c := range ps.PoolContributions {
			row.PoolContributions = append(row.PoolContributions, poolContributionDTO{
				PoolID:   c.PoolID,
				PoolName: c.PoolName,
				Amount:   money(c.Amount),
			})
		}
		dto.People[i] = row
	}
	return dto
}

type extractRequest struct {
	ImageDataURI string `json:"imageDataUri" binding:"required"`
}

type priceModeRequest struct {
	Mode models.PriceMode `json:"mode" binding:"required"`
}

type addItemRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price"`
}

type updateItemRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

type assignItemRequest struct {
	Kind models.TargetKind `json:"kind"`
	ID   string            `json:"id"`
}

type setChargeRequest struct {
	Field models.ChargeField `json:"field" binding:"required"`
	Value float64            `json:"value"`
}

type setPeopleCountRequest struct {
	Count int `json:"count"`
}

type renamePersonRequest struct {
	Name string `json:"name" binding:"required"`
}

type poolRequest struct {
	Name      string   `json:"name" binding:"required"`
	PersonIDs []string `json:"personIds" binding:"required"`
}

type updatePoolRequest struct {
	Name      *string   `json:"name"`
	PersonIDs *[]string `json:"personIds"`
}
