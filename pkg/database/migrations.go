package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "2026_08_20_Initial",
			Migrate: func(db *gorm.DB) error {
				return db.Exec(`create table if not exists sms_messages
(
    id          varchar(255) not null
        constraint sms_messages_pk
            primary key,
    guid        varchar(255) not null,
    sender      varchar(255),
    body        text,
    received_at timestamp,
    status      varchar(32),
    processed_at timestamp,
    notes       text,
    raw_payload text,
    created_at  timestamp
);
`).Error
			},
		},
		{
			ID: "2026_08_20_MessagesGuidUnique",
			Migrate: func(db *gorm.DB) error {
				return db.Exec(`create unique index if not exists sms_messages_guid_uindex
    on sms_messages (guid);
`).Error
			},
		},
		{
			ID: "2026_08_20_Transactions",
			Migrate: func(db *gorm.DB) error {
				return db.Exec(`create table if not exists mpesa_transactions
(
    id           varchar(255) not null
        constraint mpesa_transactions_pk
            primary key,
    message_id   varchar(255) not null,
    direction    varchar(32),
    amount       decimal,
    counterparty varchar(255),
    phone        varchar(32),
    code         varchar(32),
    occurred_at  timestamp,
    confidence   double precision,
    parse_notes  text,
    created_at   timestamp
);
`).Error
			},
		},
		{
			ID: "2026_08_20_TransactionsMessageUnique",
			Migrate: func(db *gorm.DB) error {
				return db.Exec(`create unique index if not exists mpesa_transactions_message_id_uindex
    on mpesa_transactions (message_id);
`).Error
			},
		},
	}
}
