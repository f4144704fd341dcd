package sqlinline

const QInsertUser = `--sql 19483ab7-18ae-435b-9956-6f5b9f44f773
insert into users (id, name, email, password_hash, google_id, avatar_url, progress, created_at, updated_at)
values (
    gen_random_uuid(),
    $1::text,
    lower($2::text),
    $3::text,
    nullif($4::text, ''),
    $5::text,
    $6::jsonb,
    now(),
    now()
)
returning id, created_at, updated_at;
`

const QSelectUserByID = `--sql 29cdb03a-81f4-463e-aa0e-82d6de2e9e9d
select id, name, email, password_hash, coalesce(google_id, ''), avatar_url, created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql d957a798-6c3c-4189-ba8e-44355b61f01c
select id, name, email, password_hash, coalesce(google_id, ''), avatar_url, created_at, updated_at
from users
where email = lower($1::text)
limit 1;
`

const QSelectUserByGoogleID = `--sql bd15aba2-e2d8-441a-bf4c-5eda88c453eb
select id, name, email, password_hash, coalesce(google_id, ''), avatar_url, created_at, updated_at
from users
where google_id = $1::text
limit 1;
`

// QLinkGoogleUser sets the federated id and only fills the avatar when none is stored.
const QLinkGoogleUser = `--sql 6d673065-12e0-498c-ac5f-f4fcce5899a4
update users
set google_id  = $2::text,
    avatar_url = case when avatar_url = '' then $3::text else avatar_url end,
    updated_at = now()
where id = $1::uuid
returning id, name, email, password_hash, coalesce(google_id, ''), avatar_url, created_at, updated_at;
`

const QUpdateUserProfile = `--sql dbe64b83-e1ca-43cb-815e-67c1b0b43813
update users
set name       = coalesce($2::text, name),
    avatar_url = coalesce($3::text, avatar_url),
    updated_at = now()
where id = $1::uuid
returning id, name, email, password_hash, coalesce(google_id, ''), avatar_url, created_at, updated_at;
`
