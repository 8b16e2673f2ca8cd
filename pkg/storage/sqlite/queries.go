package sqlite

const (
	// Payment queries
	queryGetPayment = `
		SELECT id, professional_id, amount, currency, status, due_date, description, contract_id, paid_at, created_at, updated_at
		FROM payments
		WHERE id = ?`

	queryListPaymentsByStatus = `
		SELECT id, professional_id, amount, currency, status, due_date, description, contract_id, paid_at, created_at, updated_at
		FROM payments
		WHERE status = ?
		ORDER BY created_at`

	queryListPaymentsByProfessional = `
		SELECT id, professional_id, amount, currency, status, due_date, description, contract_id, paid_at, created_at, updated_at
		FROM payments
		WHERE professional_id = ?
		ORDER BY created_at`

	queryInsertPayment = `
		INSERT INTO payments (id, professional_id, amount, currency, status, due_date, description, contract_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryUpdatePayment = `
		UPDATE payments
		SET professional_id = ?, amount = ?, currency = ?, due_date = ?, description = ?, contract_id = ?, updated_at = ?
		WHERE id = ?`

	queryMarkPaymentPaid = `
		UPDATE payments
		SET status = 'paid', paid_at = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`

	queryPaymentExists = `
		SELECT 1 FROM payments WHERE id = ?`

	// Professional queries
	queryGetProfessional = `
		SELECT id, name, wallet_address, created_at
		FROM professionals
		WHERE id = ?`

	queryInsertProfessional = `
		INSERT INTO professionals (id, name, wallet_address, created_at)
		VALUES (?, ?, ?, ?)`

	queryListProfessionals = `
		SELECT id, name, wallet_address, created_at
		FROM professionals
		ORDER BY created_at`

	// Timelock queries
	queryInsertTimelock = `
		INSERT INTO timelocks (id, payment_id, release_timestamp, status, tx_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetTimelockByPayment = `
		SELECT id, payment_id, release_timestamp, status, tx_hash, created_at, updated_at
		FROM timelocks
		WHERE payment_id = ?
		ORDER BY created_at DESC
		LIMIT 1`

	queryListTimelocks = `
		SELECT id, payment_id, release_timestamp, status, tx_hash, created_at, updated_at
		FROM timelocks
		ORDER BY created_at DESC`
)
