package seeder

import (
	"github.com/brianvoe/gofakeit/v7"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

// fake wraps a parameterless gofakeit call.
func fake[T any](fn func(f *gofakeit.Faker) T) Constructor {
	return func(ctx *GenContext, _ model.Params) (Producer, error) {
		return func() (any, error) {
			return fn(ctx.Faker), nil
		}, nil
	}
}

func registerBuiltins(r *Registry) {
	// person
	r.Register("first_name", fake((*gofakeit.Faker).FirstName))
	r.Register("last_name", fake((*gofakeit.Faker).LastName))
	r.Register("name", fake((*gofakeit.Faker).Name))
	r.Register("email", fake((*gofakeit.Faker).Email))
	r.Register("username", fake((*gofakeit.Faker).Username))
	r.Register("phone_number", fake((*gofakeit.Faker).Phone))
	r.Register("ssn", fake((*gofakeit.Faker).SSN))
	r.Register("gender", fake((*gofakeit.Faker).Gender))
	r.Register("job", fake((*gofakeit.Faker).JobTitle))

	// address
	r.Register("street_address", fake((*gofakeit.Faker).Street))
	r.Register("city", fake((*gofakeit.Faker).City))
	r.Register("state", fake((*gofakeit.Faker).State))
	r.Register("country", fake((*gofakeit.Faker).Country))
	r.Register("country_code", newCountryCode)
	r.Register("postcode", fake((*gofakeit.Faker).Zip))
	r.Register("latitude", fake((*gofakeit.Faker).Latitude))
	r.Register("longitude", fake((*gofakeit.Faker).Longitude))

	// company
	r.Register("company", fake((*gofakeit.Faker).Company))
	r.Register("bs", fake((*gofakeit.Faker).BS))

	// internet
	r.Register("url", fake((*gofakeit.Faker).URL))
	r.Register("domain_name", fake((*gofakeit.Faker).DomainName))
	r.Register("ipv4", fake((*gofakeit.Faker).IPv4Address))
	r.Register("user_agent", fake((*gofakeit.Faker).UserAgent))

	// text
	r.Register("word", fake((*gofakeit.Faker).Word))
	r.Register("sentence", newSentence)
	r.Register("paragraph", newParagraph)
	r.Register("lexify", newLexify)
	r.Register("numerify", newNumerify)
	r.Register("bothify", newBothify)

	// numeric
	r.Register("random_int", newRandomInt)
	r.Register("random_double", newRandomDouble)
	r.Register("random_digit", newRandomDigit)
	r.Register("boolean", newBoolean)
	r.Register("price", newPrice)

	// categorical
	r.Register("random_element", newRandomElement)

	// dates
	r.Register("date", newDate)
	r.Register("date_between", newDateBetween)
	r.Register("date_time", newDateTime)
	r.Register("year", newYear)

	// identifiers
	r.Register("uuid4", newUUID4)

	// finance
	r.Register("iban", newIBAN)
	r.Register("credit_card_number", newCreditCardNumber)
	r.Register("currency_code", fake((*gofakeit.Faker).CurrencyShort))
	r.Register("transaction_id", newTransactionID)
	r.Register("aba", fake((*gofakeit.Faker).AchRouting))

	// aviation
	r.Register("airport_iata", newAirportIATA)
	r.Register("airline", newAirline)
	r.Register("flight_number", newFlightNumber)

	// vehicle
	r.Register("license_plate", newLicensePlate)
	r.Register("vin", newVIN)
	r.Register("vehicle_make", fake((*gofakeit.Faker).CarMaker))
	r.Register("vehicle_model", fake((*gofakeit.Faker).CarModel))

	// logistics
	r.Register("tracking_number", newTrackingNumber)
	r.Register("sku", newSKU)
	r.Register("order_number", newOrderNumber)

	r.Register("locale", newLocale)
}

func newCreditCardNumber(ctx *GenContext, _ model.Params) (Producer, error) {
	return func() (any, error) {
		return ctx.Faker.CreditCardNumber(nil), nil
	}, nil
}

// newPrice draws a two-decimal price; defaults are 1 and 1000.
func newPrice(ctx *GenContext, params model.Params) (Producer, error) {
	lo, hi, err := rangeBounds("price", params, 1, 1000)
	if err != nil {
		return nil, err
	}
	return func() (any, error) {
		return ctx.Faker.Price(lo, hi), nil
	}, nil
}
