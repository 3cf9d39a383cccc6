package models

// All returns every persistence model, in foreign-key dependency order.
// Used for AutoMigrate in tests and local development; deployed schemas
// come from the SQL migrations.
func All() []any {
	return []any{
		&ContractModel{},
		&ContractClientModel{},
		&InstallmentModel{},
		&PaymentModel{},
		&CompanyModel{},
		&UserRelationModel{},
		&CompanyTransactionModel{},
	}
}
