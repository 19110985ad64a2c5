package finctrl

// Schema of a ledger file. Deletion cascades (account to transactions to
// parcels to tags) are explicit store logic, not triggers, so the invariant
// maintenance stays in one place and is testable in isolation.
const createScript = `
create table metadata (
    key         text not null,
    value       text not null,
    primary key (key)
);

create table currencies (
    name        text not null,
    short_name  text,
    symbol      text,
    symbol_pos  text,
    dec_places  integer,
    dec_sep     text,
    primary key (name)
);

create table accounts (
    key         integer,
    name        text not null,
    balance     integer,
    descr       text,
    currency    text,
    primary key (key),
    foreign key (currency) references currencies(name)
);

create table transactions (
    key         integer,
    account     integer not null,
    date        text,
    descr       text,
    amount      integer not null,
    accbalance  integer not null,
    primary key (key),
    foreign key (account) references accounts(key)
);

create table parcels (
    key         integer,
    trans       integer not null,
    descr       text,
    amount      integer not null,
    primary key (key),
    foreign key (trans) references transactions(key)
);

create table parceltags (
    parcel      integer not null,
    tag         text not null,
    primary key (parcel, tag),
    foreign key (parcel) references parcels(key)
);
`
