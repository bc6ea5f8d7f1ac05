package enum

// ActivityAction names the mutating operation an activity entry records
type ActivityAction string

const (
	ActivityAddProduct      ActivityAction = "ADD_PRODUCT"
	ActivityUpdateProduct   ActivityAction = "UPDATE_PRODUCT"
	ActivityAddProducts     ActivityAction = "ADD_PRODUCTS"
	ActivityTransferProduct ActivityAction = "TRANSFER_PRODUCT"
	ActivityAddCustomer     ActivityAction = "ADD_CUSTOMER"
	ActivityUpdateCustomer  ActivityAction = "UPDATE_CUSTOMER"
	ActivityCreateSale      ActivityAction = "CREATE_TRANSACTION"
	ActivityRecordPayment   ActivityAction = "RECORD_PAYMENT"
	ActivityRecordExpense   ActivityAction = "RECORD_EXPENSE"
)

func (a ActivityAction) String() string {
	return string(a)
}
