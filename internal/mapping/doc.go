// Package mapping provides the YAML schema, parsing and structural
// validation for reconciliation configuration: column mappings between two
// pipeline stages and the rules that govern value transformation and
// tolerance.
//
// The engine consumes these types already resolved; this package never
// reads files or substitutes placeholders.
//
// # Schema Overview
//
//	processName: daily_orders
//	testDate: "2023-12-25"
//	csvToBronzeValidation:
//	  csvFilePath: data/orders.csv
//	  bronzeTableName: bronze.orders
//	  # simple form: source column -> target column
//	  columnMappings:
//	    order_id: order_id
//	    amount: amount
//	bronzeToSilverValidation:
//	  bronzeTableName: bronze.orders
//	  silverTableName: silver.orders
//	  # rich form: source column -> target column + rule
//	  columnMappings:
//	    customer_no:
//	      silverColumn: customer_no
//	      transformationRule: PAD_LEFT_ZERO_8
//	    order_date:
//	      silverColumn: order_dt
//	      transformationRule: DATE_FORMAT_DD_MON_YY_TO_DD_MM_YY
//	validationRules:
//	  numericTolerance: 0.05
//	  dateFormats:
//	    input: dd-MMM-yy
//	    output: dd/MM/yy
//	  paddingConfig:
//	    padChar: "0"
//	    padDirection: LEFT
//	    targetLength: 8
//
// # Column mapping forms
//
// Each entry of columnMappings is either a scalar (the target column, no
// transformation) or a map with the target column and a rule identifier.
// The short keys "column" and "rule" are accepted as well as
// "silverColumn" and "transformationRule". Document order is preserved, and
// it is the order in which columns are checked and reported.
//
// # Rule identifiers
//
// Rule identifiers are dispatch keys only. A rule such as PAD_LEFT_ZERO_8
// takes its length, character and direction from validationRules, never from
// its name.
package mapping
